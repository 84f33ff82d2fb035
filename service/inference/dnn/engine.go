package dnn

import (
	"crypto/sha256"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Engine runs segmentation through an OpenCV DNN network built from the
// resolved model bytes. Every other call goes to the embedded engine.
type Engine struct {
	inference.IService

	Framework string
	InputSize image.Point
	Threshold float32

	// net is not thread-safe, so Forward runs under mu
	mu     sync.Mutex
	net    *gocv.Net
	netSum [sha256.Size]byte
}

func New(next inference.IService) *Engine {
	return &Engine{
		IService:  next,
		Framework: "onnx",
		InputSize: image.Pt(256, 256),
		Threshold: 0.5,
	}
}

func (e *Engine) Segment(in inference.SegmentInput, modelBytes []byte) (*inference.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	net, err := e.load(modelBytes)
	if err != nil {
		return nil, err
	}
	return e.segment(net, in)
}

func (e *Engine) SegmentBatch(in []inference.SegmentInput, modelBytes []byte) ([]inference.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	net, err := e.load(modelBytes)
	if err != nil {
		return nil, err
	}

	out := make([]inference.Image, 0, len(in))
	for _, item := range in {
		img, err := e.segment(net, item)
		if err != nil {
			return nil, err
		}
		if img == nil {
			return nil, nil
		}
		out = append(out, *img)
	}
	return out, nil
}

// load reuses the current network while the model bytes are unchanged.
func (e *Engine) load(modelBytes []byte) (*gocv.Net, error) {
	sum := sha256.Sum256(modelBytes)
	if e.net != nil && sum == e.netSum {
		return e.net, nil
	}

	net, err := gocv.ReadNetBytes(e.Framework, modelBytes, nil)
	if err != nil {
		return nil, fmt.Errorf("reading %s segmentation network: %w", e.Framework, err)
	}
	if net.Empty() {
		return nil, fmt.Errorf("empty %s segmentation network", e.Framework)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, err
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, err
	}

	if e.net != nil {
		e.net.Close()
	}
	e.net, e.netSum = &net, sum

	lgr.Logger.Info("segmentation network loaded",
		slog.String("framework", e.Framework),
		slog.String("openCV", gocv.Version()),
		slog.Int("bytes", len(modelBytes)),
	)
	return e.net, nil
}

func (e *Engine) segment(net *gocv.Net, in inference.SegmentInput) (*inference.Image, error) {
	if in.Image.Empty() || in.Mask.Empty() {
		return nil, fmt.Errorf("segment: empty input")
	}
	if in.Mask.Width != in.Image.Width || in.Mask.Height != in.Image.Height {
		return nil, fmt.Errorf("segment: mask %dx%d does not match image %dx%d",
			in.Mask.Width, in.Mask.Height, in.Image.Width, in.Image.Height)
	}

	rgba, err := gocv.ImageToMatRGBA(in.Image.ToImage())
	if err != nil {
		return nil, err
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	blob := gocv.BlobFromImage(bgr, 1.0/255.0, e.InputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	net.SetInput(blob, "")
	output := net.Forward("")
	defer output.Close()

	dims := output.Size()
	if len(dims) < 2 {
		return nil, fmt.Errorf("unexpected segmentation output dims: %v", dims)
	}
	oh, ow := dims[len(dims)-2], dims[len(dims)-1]

	probs, err := output.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	if len(probs) < oh*ow {
		return nil, nil
	}

	w, h := in.Image.Width, in.Image.Height
	out := inference.Image{Width: w, Height: h, Pix: make([]byte, w*h*4)}
	kept := 0
	for y := 0; y < h; y++ {
		py := y * oh / h
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if in.Mask.Pix[i] == 0 || probs[py*ow+x*ow/w] < e.Threshold {
				continue
			}
			copy(out.Pix[i:i+4], in.Image.Pix[i:i+4])
			kept++
		}
	}
	if kept == 0 {
		return nil, nil
	}
	return &out, nil
}
