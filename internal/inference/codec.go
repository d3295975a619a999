package inference

import "fmt"

// Codec maps category labels to the integer indices a model was fit on and
// back. The vocabulary is fixed when the codec is built.
type Codec struct {
	name    string
	labels  []string
	indices map[string]int
}

// NewCodec builds a codec whose index for each label is its position in
// labels. The slice is copied.
func NewCodec(name string, labels []string) (*Codec, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("codec %s: empty vocabulary", name)
	}

	c := &Codec{
		name:    name,
		labels:  make([]string, len(labels)),
		indices: make(map[string]int, len(labels)),
	}
	copy(c.labels, labels)

	for i, label := range c.labels {
		if _, dup := c.indices[label]; dup {
			return nil, fmt.Errorf("codec %s: duplicate label %q", name, label)
		}
		c.indices[label] = i
	}
	return c, nil
}

// Name identifies the vocabulary in error messages.
func (c *Codec) Name() string {
	return c.name
}

// Len returns the vocabulary size.
func (c *Codec) Len() int {
	return len(c.labels)
}

// Labels returns a copy of the vocabulary in index order.
func (c *Codec) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Encode returns the index of label. Labels outside the vocabulary fail
// with ErrUnknownCategory.
func (c *Codec) Encode(label string) (int, error) {
	idx, ok := c.indices[label]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownCategory, c.name, label)
	}
	return idx, nil
}

// Decode returns the label at index. Indices outside the vocabulary fail
// with ErrInvalidIndex.
func (c *Codec) Decode(index int) (string, error) {
	if index < 0 || index >= len(c.labels) {
		return "", fmt.Errorf("%w: %s index %d (vocabulary size %d)", ErrInvalidIndex, c.name, index, len(c.labels))
	}
	return c.labels[index], nil
}
