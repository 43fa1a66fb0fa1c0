package design

import "fmt"

// HorizontalConstraint anchors an element on the x axis. The zero value means
// no constraint has been assigned yet.
type HorizontalConstraint int

const (
	HorizontalUnset HorizontalConstraint = iota
	HorizontalLeft
	HorizontalRight
	HorizontalCenter
	HorizontalScale
)

var horizontalNames = map[HorizontalConstraint]string{
	HorizontalUnset:  "",
	HorizontalLeft:   "left",
	HorizontalRight:  "right",
	HorizontalCenter: "center",
	HorizontalScale:  "scale",
}

func (h HorizontalConstraint) String() string { return horizontalNames[h] }

// MarshalText implements encoding.TextMarshaler.
func (h HorizontalConstraint) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HorizontalConstraint) UnmarshalText(b []byte) error {
	v, err := ParseHorizontal(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseHorizontal parses "left", "right", "center" or "scale". The empty string
// is HorizontalUnset.
func ParseHorizontal(s string) (HorizontalConstraint, error) {
	for k, v := range horizontalNames {
		if v == s {
			return k, nil
		}
	}
	return HorizontalUnset, fmt.Errorf("unknown horizontal constraint %q", s)
}

// VerticalConstraint anchors an element on the y axis.
type VerticalConstraint int

const (
	VerticalUnset VerticalConstraint = iota
	VerticalTop
	VerticalBottom
	VerticalCenter
	VerticalScale
)

var verticalNames = map[VerticalConstraint]string{
	VerticalUnset:  "",
	VerticalTop:    "top",
	VerticalBottom: "bottom",
	VerticalCenter: "center",
	VerticalScale:  "scale",
}

func (v VerticalConstraint) String() string { return verticalNames[v] }

// MarshalText implements encoding.TextMarshaler.
func (v VerticalConstraint) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VerticalConstraint) UnmarshalText(b []byte) error {
	parsed, err := ParseVertical(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVertical parses "top", "bottom", "center" or "scale".
func ParseVertical(s string) (VerticalConstraint, error) {
	for k, v := range verticalNames {
		if v == s {
			return k, nil
		}
	}
	return VerticalUnset, fmt.Errorf("unknown vertical constraint %q", s)
}

// ConstraintPair is the anchoring rule of a logical element. It is shared by
// every instance of a linked group and replaced wholesale, never patched.
type ConstraintPair struct {
	Horizontal HorizontalConstraint `json:"horizontal,omitempty"`
	Vertical   VerticalConstraint   `json:"vertical,omitempty"`
}

// DefaultConstraints is the pair used when nothing better is known.
func DefaultConstraints() ConstraintPair {
	return ConstraintPair{Horizontal: HorizontalLeft, Vertical: VerticalTop}
}

// IsZero reports whether no constraint has been assigned.
func (c ConstraintPair) IsZero() bool {
	return c.Horizontal == HorizontalUnset && c.Vertical == VerticalUnset
}

// Complete fills unset axes with the defaults.
func (c ConstraintPair) Complete() ConstraintPair {
	if c.Horizontal == HorizontalUnset {
		c.Horizontal = HorizontalLeft
	}
	if c.Vertical == VerticalUnset {
		c.Vertical = VerticalTop
	}
	return c
}

func (c ConstraintPair) String() string {
	return c.Horizontal.String() + "/" + c.Vertical.String()
}
