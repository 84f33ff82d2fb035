package model

// Code identifies one failure within a component. Codes are only turned into
// legacy integers when reports leave the process.
type Code string

const (
	CodeOK      Code = "ok"
	CodeUnknown Code = "unknown"

	// resource resolution
	CodeResourceNotFound     Code = "resource.notFound"
	CodeDecryptionKeyMissing Code = "resource.decryptionKeyMissing"
	CodeDecryptionFailed     Code = "resource.decryptionFailed"
	CodeResourceAccessFailed Code = "resource.accessFailed"
	CodeModelsMissing        Code = "resource.modelsMissing"
	CodeResourceDecodeFailed Code = "resource.decodeFailed"
	CodeResourceInvalidName  Code = "resource.invalidName"

	// contour
	CodeContourInvalidHeightWeight Code = "contour.invalidHeightOrWeight"
	CodeContourInvalidResolution   Code = "contour.invalidResolution"
	CodeContourMissingJoints       Code = "contour.missingJoints"
	CodeContourInvalidPolygon      Code = "contour.invalidPolygon"

	// pose
	CodePoseInvalidMask Code = "pose.invalidMask"

	// capture
	CodeCaptureConfigEmpty       Code = "capture.configEmpty"
	CodeCaptureConfigInvalid     Code = "capture.configInvalid"
	CodeCaptureFramesUnavailable Code = "capture.framesUnavailable"
	CodeCaptureUnknownStrategy   Code = "capture.unknownStrategy"

	// classification
	CodeClassificationInvalidHeightWeight Code = "classification.invalidHeightOrWeight"
	CodeClassificationNoCaptures          Code = "classification.noCaptures"
	CodeClassificationWrongResolution     Code = "classification.wrongResolution"
	CodeClassificationMissingJoints       Code = "classification.missingJoints"
	CodeClassificationFailed              Code = "classification.failed"

	// segmentation
	CodeSegmentationNoCaptures             Code = "segmentation.noCaptures"
	CodeSegmentationWrongCaptureResolution Code = "segmentation.wrongCaptureResolution"
	CodeSegmentationWrongMaskResolution    Code = "segmentation.wrongMaskResolution"
	CodeSegmentationMissingJoints          Code = "segmentation.missingJoints"
	CodeSegmentationModelMissing           Code = "segmentation.modelMissing"
	CodeSegmentationFailed                 Code = "segmentation.failed"

	// inversion
	CodeInversionNameMissing         Code = "inversion.nameMissing"
	CodeInversionInvalidHeightWeight Code = "inversion.invalidHeightOrWeight"
	CodeInversionFailed              Code = "inversion.failed"
	CodeInversionWriteFailed         Code = "inversion.writeFailed"

	// pipeline
	CodeSetupNotDone Code = "pipeline.setupNotDone"
	CodeCanceled     Code = "pipeline.canceled"
	CodeInvalidSex   Code = "pipeline.invalidSex"
)

type codeInfo struct {
	legacy int
	kind   Kind
}

var codes = map[Code]codeInfo{
	CodeResourceNotFound:     {2000, KindResourceUnavailable},
	CodeDecryptionKeyMissing: {2001, KindResourceUnavailable},
	CodeDecryptionFailed:     {2002, KindResourceUnavailable},
	CodeResourceAccessFailed: {2003, KindResourceUnavailable},
	CodeModelsMissing:        {2004, KindResourceIncomplete},
	CodeResourceDecodeFailed: {2005, KindResourceUnavailable},
	CodeResourceInvalidName:  {2006, KindInvalidInput},

	CodeContourInvalidHeightWeight: {2100, KindInvalidInput},
	CodeContourInvalidResolution:   {2101, KindInvalidInput},
	CodeContourMissingJoints:       {2102, KindInvalidInput},
	CodeContourInvalidPolygon:      {2103, KindInvalidInput},

	CodePoseInvalidMask: {2200, KindInvalidInput},

	CodeCaptureConfigEmpty:       {2300, KindInvalidInput},
	CodeCaptureConfigInvalid:     {2301, KindInvalidInput},
	CodeCaptureFramesUnavailable: {2302, KindComputeFailure},
	CodeCaptureUnknownStrategy:   {2303, KindInvalidInput},

	CodeClassificationInvalidHeightWeight: {2400, KindInvalidInput},
	CodeClassificationNoCaptures:          {2401, KindInvalidInput},
	CodeClassificationWrongResolution:     {2402, KindInvalidInput},
	CodeClassificationMissingJoints:       {2403, KindInvalidInput},
	CodeClassificationFailed:              {2404, KindComputeFailure},

	CodeSegmentationNoCaptures:             {2500, KindInvalidInput},
	CodeSegmentationWrongCaptureResolution: {2501, KindInvalidInput},
	CodeSegmentationWrongMaskResolution:    {2502, KindInvalidInput},
	CodeSegmentationMissingJoints:          {2503, KindInvalidInput},
	CodeSegmentationModelMissing:           {2504, KindResourceUnavailable},
	CodeSegmentationFailed:                 {2505, KindComputeFailure},

	CodeInversionNameMissing:         {2600, KindInvalidInput},
	CodeInversionInvalidHeightWeight: {2601, KindInvalidInput},
	CodeInversionFailed:              {2602, KindComputeFailure},
	CodeInversionWriteFailed:         {2603, KindResourceUnavailable},

	CodeSetupNotDone: {2900, KindSetupNotDone},
	CodeCanceled:     {2901, KindCanceled},
	CodeInvalidSex:   {2902, KindInvalidInput},

	CodeUnknown: {LegacyUnknown, KindUnknown},
}

const (
	LegacyOK      = 0
	LegacyUnknown = 2999
)

func (c Code) Kind() Kind {
	if info, ok := codes[c]; ok {
		return info.kind
	}
	return KindUnknown
}

// Legacy returns the integer used in persisted reports.
func (c Code) Legacy() int {
	if c == CodeOK {
		return LegacyOK
	}
	if info, ok := codes[c]; ok {
		return info.legacy
	}
	return LegacyUnknown
}

// CodeFromLegacy maps a persisted integer back to its code; anything not
// declared resolves to CodeUnknown.
func CodeFromLegacy(n int) Code {
	if n == LegacyOK {
		return CodeOK
	}
	for c, info := range codes {
		if info.legacy == n {
			return c
		}
	}
	return CodeUnknown
}
