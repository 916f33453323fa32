package prosody

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpegDecoder decodes any format ffmpeg understands into mono float
// samples at the file's native sample rate.
type FFmpegDecoder struct {
	FFmpegBin  string
	FFprobeBin string
}

func NewFFmpegDecoder(ffmpegBin, ffprobeBin string) *FFmpegDecoder {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpegDecoder{FFmpegBin: ffmpegBin, FFprobeBin: ffprobeBin}
}

func (d *FFmpegDecoder) Decode(ctx context.Context, path string) ([]float64, int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, 0, err
	}
	out, err := runCmd(ctx, d.FFprobeBin,
		"-v", "error", "-select_streams", "a:0",
		"-show_entries", "stream=sample_rate", "-of", "json", path)
	if err != nil {
		return nil, 0, err
	}
	sr, err := parseProbe(out)
	if err != nil {
		return nil, 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	pcm, err := runCmd(ctx, d.FFmpegBin,
		"-v", "error", "-nostdin", "-i", path, "-vn",
		"-ac", "1", "-ar", strconv.Itoa(sr),
		"-f", "f32le", "-acodec", "pcm_f32le", "-")
	if err != nil {
		return nil, 0, err
	}
	samples, err := decodeF32LE(pcm)
	if err != nil {
		return nil, 0, fmt.Errorf("ffmpeg %s: %w", path, err)
	}
	return samples, sr, nil
}

func parseProbe(out []byte) (int, error) {
	var probe struct {
		Streams []struct {
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, err
	}
	if len(probe.Streams) == 0 {
		return 0, fmt.Errorf("no audio stream")
	}
	sr, err := strconv.Atoi(strings.TrimSpace(probe.Streams[0].SampleRate))
	if err != nil || sr <= 0 {
		return 0, fmt.Errorf("bad sample rate %q", probe.Streams[0].SampleRate)
	}
	return sr, nil
}

func decodeF32LE(b []byte) ([]float64, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("truncated f32le stream (%d bytes)", len(b))
	}
	out := make([]float64, len(b)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return out, nil
}

func runCmd(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %s", filepath.Base(bin), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
