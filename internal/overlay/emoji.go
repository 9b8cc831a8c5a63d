package overlay

import (
	"errors"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/ayusman/airmouse/internal/gesture"
)

// DefaultEmojiSize is the edge length in pixels of a rendered emoji.
const DefaultEmojiSize = 100

// placeholder colours in BGRA, half transparent.
var (
	missingColor    = gocv.NewScalar(0, 0, 255, 128)
	unreadableColor = gocv.NewScalar(255, 0, 0, 128)
)

// EmojiSet holds one BGRA image per emoji, all the same square size.
type EmojiSet struct {
	size   int
	images map[gesture.Emoji]gocv.Mat
}

// LoadEmojis reads <dir>/<emoji>.png for every emoji and scales it to
// size x size. A missing file becomes a red placeholder and an unreadable one
// a blue placeholder; both are logged.
func LoadEmojis(dir string, size int, logger *slog.Logger) *EmojiSet {
	if size <= 0 {
		size = DefaultEmojiSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	set := &EmojiSet{
		size:   size,
		images: make(map[gesture.Emoji]gocv.Mat, len(gesture.Emojis)),
	}

	for _, e := range gesture.Emojis {
		path := filepath.Join(dir, string(e)+".png")

		img, err := loadEmoji(path, size)
		switch {
		case err == nil:
			set.images[e] = img
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("emoji image not found, using placeholder", "emoji", e, "path", path)
			set.images[e] = placeholder(size, missingColor)
		default:
			logger.Warn("emoji image unreadable, using placeholder", "emoji", e, "path", path, "error", err)
			set.images[e] = placeholder(size, unreadableColor)
		}
	}

	return set
}

var errUnreadable = errors.New("image could not be decoded")

func loadEmoji(path string, size int) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.Mat{}, err
	}

	src := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer src.Close()
	if src.Empty() {
		return gocv.Mat{}, errUnreadable
	}

	bgra := gocv.NewMat()
	defer bgra.Close()

	switch src.Channels() {
	case 4:
		src.CopyTo(&bgra)
	case 3:
		gocv.CvtColor(src, &bgra, gocv.ColorBGRToBGRA)
	case 1:
		gocv.CvtColor(src, &bgra, gocv.ColorGrayToBGRA)
	default:
		return gocv.Mat{}, errUnreadable
	}

	out := gocv.NewMat()
	gocv.Resize(bgra, &out, image.Pt(size, size), 0, 0, gocv.InterpolationArea)
	return out, nil
}

func placeholder(size int, c gocv.Scalar) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(c, size, size, gocv.MatTypeCV8UC4)
}

// Get returns the image for e.
func (s *EmojiSet) Get(e gesture.Emoji) (gocv.Mat, bool) {
	m, ok := s.images[e]
	return m, ok
}

// Size returns the emoji edge length.
func (s *EmojiSet) Size() int {
	return s.size
}

// Close releases every image.
func (s *EmojiSet) Close() {
	for e, m := range s.images {
		m.Close()
		delete(s.images, e)
	}
}

// DrawEmoji alpha-blends the BGRA emoji onto the centre of a BGR frame.
// Nothing is drawn when the frame is smaller than the emoji.
func DrawEmoji(frame *gocv.Mat, emoji gocv.Mat) {
	if frame == nil || frame.Empty() || emoji.Empty() || emoji.Channels() != 4 || frame.Channels() != 3 {
		return
	}

	w, h := emoji.Cols(), emoji.Rows()
	if frame.Cols() < w || frame.Rows() < h {
		return
	}

	x := (frame.Cols() - w) / 2
	y := (frame.Rows() - h) / 2

	roi := frame.Region(image.Rect(x, y, x+w, y+h))
	defer roi.Close()

	channels := gocv.Split(emoji)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.Merge(channels[:3], &bgr)

	alpha := gocv.NewMat()
	defer alpha.Close()
	gocv.Merge([]gocv.Mat{channels[3], channels[3], channels[3]}, &alpha)

	alphaF := gocv.NewMat()
	defer alphaF.Close()
	alpha.ConvertToWithParams(&alphaF, gocv.MatTypeCV32FC3, 1.0/255, 0)

	ones := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(1, 1, 1, 0), h, w, gocv.MatTypeCV32FC3)
	defer ones.Close()

	inv := gocv.NewMat()
	defer inv.Close()
	gocv.Subtract(ones, alphaF, &inv)

	roiF := gocv.NewMat()
	defer roiF.Close()
	roi.ConvertTo(&roiF, gocv.MatTypeCV32FC3)

	bgrF := gocv.NewMat()
	defer bgrF.Close()
	bgr.ConvertTo(&bgrF, gocv.MatTypeCV32FC3)

	background := gocv.NewMat()
	defer background.Close()
	gocv.Multiply(roiF, inv, &background)

	foreground := gocv.NewMat()
	defer foreground.Close()
	gocv.Multiply(bgrF, alphaF, &foreground)

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.Add(background, foreground, &blended)

	out := gocv.NewMat()
	defer out.Close()
	blended.ConvertTo(&out, gocv.MatTypeCV8UC3)

	out.CopyTo(&roi)
}
