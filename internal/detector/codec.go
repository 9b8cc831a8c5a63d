package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// maxFrameBytes bounds a single encoded frame on the wire.
const maxFrameBytes = math.MaxUint32

var errFrameTooLarge = errors.New("frame exceeds wire limit")

// writeFrame sends one frame as a 4-byte big-endian length and the payload.
func writeFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > maxFrameBytes {
		return errFrameTooLarge
	}

	msg := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(msg, uint32(len(payload)))
	copy(msg[4:], payload)

	_, err := w.Write(msg)
	return err
}

// wirePoint is a landmark normalized to [0,1].
type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireHand struct {
	Points     []wirePoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type wireResponse struct {
	Hands []wireHand `json:"hands"`
	Error string     `json:"error,omitempty"`
}

// readHands reads one response line and scales it to a width x height frame.
func readHands(r *bufio.Reader, width, height int) ([]HandLandmarks, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return parseResponse(line, width, height)
}

// parseResponse decodes a response line. Hands without exactly NumLandmarks
// points are dropped.
func parseResponse(line []byte, width, height int) ([]HandLandmarks, error) {
	var resp wireResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("service: %s", resp.Error)
	}

	hands := make([]HandLandmarks, 0, len(resp.Hands))
	for _, h := range resp.Hands {
		points := make([]Point, len(h.Points))
		for i, p := range h.Points {
			points[i] = Point{
				X: int(p.X * float64(width)),
				Y: int(p.Y * float64(height)),
			}
		}

		lm, err := NewHandLandmarks(points)
		if err != nil {
			continue
		}
		lm.Handedness = h.Handedness
		lm.Score = h.Score
		hands = append(hands, *lm)
	}
	return hands, nil
}
