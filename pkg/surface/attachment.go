package surface

// Attachment selects which point of a text block sits on its anchor. Values
// follow the CAD attachment-point numbering, row by row from the top left.
type Attachment int

const (
	AttachTopLeft Attachment = iota + 1
	AttachTopCenter
	AttachTopRight
	AttachMiddleLeft
	AttachMiddleCenter
	AttachMiddleRight
	AttachBottomLeft
	AttachBottomCenter
	AttachBottomRight
)

// Valid reports whether a is one of the nine attachment points.
func (a Attachment) Valid() bool { return a >= AttachTopLeft && a <= AttachBottomRight }

// Offset returns the fraction of the block's width and height between the
// block's top-left corner and the anchor. (0,0) is top-left, (1,1) is
// bottom-right.
func (a Attachment) Offset() (fx, fy float64) {
	if !a.Valid() {
		return 0, 0
	}
	i := int(a) - 1
	return float64(i%3) / 2, float64(i/3) / 2
}
