package model

import "fmt"

type ResourceType int

const (
	ResourceML ResourceType = iota
	ResourceSVR
	ResourceVectorFloat
	ResourceVectorVectorFloat
	ResourceVectorInt
)

func (t ResourceType) String() string {
	switch t {
	case ResourceML:
		return "ml"
	case ResourceSVR:
		return "svr"
	case ResourceVectorFloat:
		return "vectorFloat"
	case ResourceVectorVectorFloat:
		return "vectorVectorFloat"
	case ResourceVectorInt:
		return "vectorInt"
	}
	return "unknown"
}

// Extension is the on-disk extension for the type, without encryption suffix.
func (t ResourceType) Extension() string {
	if t == ResourceML {
		return ".tflite"
	}
	return ".cereal"
}

// EncryptedExtensions are tried, in order, after the plain file name.
var EncryptedExtensions = []string{".bin", ".test_bin"}

type ResourceDescriptor struct {
	Name string       `json:"name"`
	Type ResourceType `json:"type"`
	Sex  *Sex         `json:"sex,omitempty"`
}

func NewResource(name string, typ ResourceType) ResourceDescriptor {
	return ResourceDescriptor{Name: name, Type: typ}
}

// ForSex returns a copy of d bound to a sex-specific variant.
func (d ResourceDescriptor) ForSex(sex Sex) ResourceDescriptor {
	d.Sex = &sex
	return d
}

// FileName is <name>[_male|_female]<ext>.
func (d ResourceDescriptor) FileName() string {
	name := d.Name
	if d.Sex != nil {
		name = fmt.Sprintf("%s_%s", name, *d.Sex)
	}
	return name + d.Type.Extension()
}

func (d ResourceDescriptor) String() string {
	return d.FileName()
}
