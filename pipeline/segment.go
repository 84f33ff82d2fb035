package pipeline

import (
	"context"
	"image"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
)

// Segment returns the person cut out of the capture, guided by the contour
// mask.
func (p *Pipeline) Segment(ctx context.Context, req SegmentRequest) (out image.Image, err error) {
	const op = "pipeline.segment"

	if err := p.checkReady(op); err != nil {
		return nil, err
	}

	ctx, r := p.begin(ctx, model.OpSegment)
	defer func() { p.end(r, nil, err) }()

	if err := validateSegment(req); err != nil {
		return nil, err
	}

	modelBytes, err := p.segmentationModel(ctx, op)
	if err != nil {
		return nil, err
	}

	img, err := invokeNative(op, model.CodeSegmentationFailed, func() (*inference.Image, error) {
		return p.svcs.InferenceSvc.Segment(segmentInput(req), modelBytes)
	})
	if err != nil {
		return nil, err
	}
	if img == nil || img.Empty() {
		return nil, model.NewError(model.CodeSegmentationFailed, op, "engine produced no image")
	}
	return img.ToImage(), nil
}

// SegmentBatch segments every request in one engine call. Results keep the
// order of reqs.
func (p *Pipeline) SegmentBatch(ctx context.Context, reqs []SegmentRequest) (out []image.Image, err error) {
	const op = "pipeline.segmentBatch"

	if err := p.checkReady(op); err != nil {
		return nil, err
	}

	ctx, r := p.begin(ctx, model.OpSegmentBatch)
	defer func() { p.end(r, nil, err) }()

	if err := validateSegmentBatch(reqs); err != nil {
		return nil, err
	}

	modelBytes, err := p.segmentationModel(ctx, op)
	if err != nil {
		return nil, err
	}

	in := make([]inference.SegmentInput, len(reqs))
	for i, req := range reqs {
		in[i] = segmentInput(req)
	}

	imgs, err := invokeNative(op, model.CodeSegmentationFailed, func() ([]inference.Image, error) {
		return p.svcs.InferenceSvc.SegmentBatch(in, modelBytes)
	})
	if err != nil {
		return nil, err
	}
	if len(imgs) != len(reqs) {
		return nil, model.NewError(model.CodeSegmentationFailed, op,
			"engine produced %d images for %d captures", len(imgs), len(reqs))
	}

	out = make([]image.Image, len(imgs))
	for i, img := range imgs {
		if img.Empty() {
			return nil, model.NewError(model.CodeSegmentationFailed, op, "engine produced an empty image at %d", i)
		}
		out[i] = img.ToImage()
	}
	return out, nil
}

func (p *Pipeline) segmentationModel(ctx context.Context, op string) ([]byte, error) {
	if err := checkCanceled(ctx, op); err != nil {
		return nil, err
	}

	name := p.segmentationModelName()
	data, err := p.svcs.ModelCache.Resource(ctx, model.NewResource(name, model.ResourceML))
	if err != nil {
		if model.IsCode(err, model.CodeResourceNotFound) {
			return nil, model.NewError(model.CodeSegmentationModelMissing, op, "segmentation model %s not found", name)
		}
		return nil, err
	}
	if err := checkCanceled(ctx, op); err != nil {
		return nil, err
	}
	return data, nil
}

func segmentInput(req SegmentRequest) inference.SegmentInput {
	return inference.SegmentInput{
		Image:   inference.FromImage(req.Capture.Image),
		Mask:    inference.FromImage(req.Mask),
		Profile: req.Profile,
		Joints:  req.Capture.Joints.Clone(),
	}
}
