package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const maxSessionsPerSecond = 100

type PersistBundle struct {
	SessionID        string               `json:"session_id"`
	ConversationPath string               `json:"conversation_path"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Turns            ConversationAnalysis `json:"turns,omitempty"`
	Summary          Summary              `json:"summary"`
	Resolution       string               `json:"resolution,omitempty"`
}

// mkSessionDir creates a fresh session_<ts> directory. Runs started within
// the same second get a numeric suffix instead of sharing a directory.
func mkSessionDir(outputsRoot string) (string, string, error) {
	if err := os.MkdirAll(outputsRoot, 0o755); err != nil {
		return "", "", err
	}
	base := "session_" + time.Now().Format("20060102-150405")
	for i := 1; i <= maxSessionsPerSecond; i++ {
		sid := base
		if i > 1 {
			sid = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(outputsRoot, sid)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return sid, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("session dir %s: too many sessions in one second", base)
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type persisted struct {
	SessionID    string
	Dir          string
	AnalysisPath string
	SummaryPath  string
}

func persist(outputsRoot, conversationPath string, analysis ConversationAnalysis, summary Summary, resolution string) (persisted, error) {
	sid, outDir, err := mkSessionDir(outputsRoot)
	if err != nil {
		return persisted{}, err
	}

	out := persisted{
		SessionID:    sid,
		Dir:          outDir,
		AnalysisPath: filepath.Join(outDir, "analysis.json"),
		SummaryPath:  filepath.Join(outDir, "summary.json"),
	}

	if err = writeJSON(out.AnalysisPath, analysis); err != nil {
		return persisted{}, err
	}

	bundle := PersistBundle{
		SessionID:        sid,
		ConversationPath: conversationPath,
		GeneratedAt:      time.Now(),
		Turns:            nil, // keep turns in analysis.json only
		Summary:          summary,
		Resolution:       resolution,
	}
	if err = writeJSON(out.SummaryPath, bundle); err != nil {
		return persisted{}, err
	}
	return out, nil
}
