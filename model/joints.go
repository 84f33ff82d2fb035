package model

const (
	JointHeadTop       = "CentroidHeadTop"
	JointNeck          = "CentroidNeck"
	JointNose          = "CentroidNose"
	JointLeftShoulder  = "CentroidLeftShoulder"
	JointRightShoulder = "CentroidRightShoulder"
	JointLeftElbow     = "CentroidLeftElbow"
	JointRightElbow    = "CentroidRightElbow"
	JointLeftHand      = "CentroidLeftHand"
	JointRightHand     = "CentroidRightHand"
	JointLeftHip       = "CentroidLeftHip"
	JointRightHip      = "CentroidRightHip"
	JointLeftKnee      = "CentroidLeftKnee"
	JointRightKnee     = "CentroidRightKnee"
	JointLeftAnkle     = "CentroidLeftAnkle"
	JointRightAnkle    = "CentroidRightAnkle"
)

// RequiredJoints is the fixed landmark vocabulary every capture must carry.
var RequiredJoints = []string{
	JointHeadTop,
	JointNeck,
	JointNose,
	JointLeftShoulder,
	JointRightShoulder,
	JointLeftElbow,
	JointRightElbow,
	JointLeftHand,
	JointRightHand,
	JointLeftHip,
	JointRightHip,
	JointLeftKnee,
	JointRightKnee,
	JointLeftAnkle,
	JointRightAnkle,
}

// Joints maps a landmark name to its image-space position.
type Joints map[string]Point

func (j Joints) Clone() Joints {
	if j == nil {
		return nil
	}
	out := make(Joints, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// Missing returns the keys not present in j, in the order given.
func (j Joints) Missing(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := j[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func (j Joints) HasAll(keys []string) bool {
	return len(j.Missing(keys)) == 0
}

// HasExactly reports whether j holds keys and nothing else.
func (j Joints) HasExactly(keys []string) bool {
	return len(j) == len(keys) && j.HasAll(keys)
}

// Count returns how many of keys are present in j.
func (j Joints) Count(keys []string) int {
	return len(keys) - len(j.Missing(keys))
}
