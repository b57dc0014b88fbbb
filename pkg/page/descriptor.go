package page

import (
	"bytes"
	"encoding/json"

	"github.com/knowdesk/pagekit/internal/errors"
)

const (
	// SentinelComponent names the page used when the descriptor is unreadable.
	SentinelComponent = "Error"

	// FallbackVersion is the asset version reported by FallbackDescriptor.
	FallbackVersion = "1.0.0"
)

// Descriptor is the serialized page state the server embeds in the host
// document: which component to render, with what props, for which URL and
// asset version.
type Descriptor struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
	URL       string         `json:"url"`
	Version   string         `json:"version"`
}

// ParseDescriptor decodes a JSON descriptor. A descriptor without a
// component name is rejected since nothing could be resolved from it.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Descriptor{}, errors.New(errors.CodeDescriptorParse).WithDetail("empty payload")
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, errors.New(errors.CodeDescriptorParse).Wrap(err)
	}
	if d.Component == "" {
		return Descriptor{}, errors.New(errors.CodeDescriptorParse).WithDetail("missing component")
	}
	if d.Props == nil {
		d.Props = map[string]any{}
	}
	return d, nil
}

// FallbackDescriptor is substituted for a descriptor that could not be read.
func FallbackDescriptor(location string) Descriptor {
	return Descriptor{
		Component: SentinelComponent,
		Props:     map[string]any{},
		URL:       location,
		Version:   FallbackVersion,
	}
}

// Encode returns the JSON form of d.
func (d Descriptor) Encode() ([]byte, error) {
	if d.Props == nil {
		d.Props = map[string]any{}
	}
	return json.Marshal(d)
}
