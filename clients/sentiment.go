package clients

import "context"

// --- Sentiment (/sentiment) ---
type SentimentReq struct {
	Text string `json:"text"`
}

// SentimentResp carries polarity in [-1,1] and subjectivity in [0,1].
type SentimentResp struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

func (h *HTTP) Sentiment(ctx context.Context, url, text string) (*SentimentResp, error) {
	var out SentimentResp
	if err := h.postJSON(ctx, url+"/sentiment", "sentiment", SentimentReq{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
