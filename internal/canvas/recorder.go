package canvas

// CommandKind identifies a recorded draw call.
type CommandKind int

const (
	CmdStroke CommandKind = iota
	CmdFillCircle
	CmdFillRect
)

func (k CommandKind) String() string {
	switch k {
	case CmdFillCircle:
		return "fill-circle"
	case CmdFillRect:
		return "fill-rect"
	default:
		return "stroke"
	}
}

// Command is one recorded draw call with everything needed to replay it.
type Command struct {
	Kind   CommandKind
	Path   Path
	Center Point
	Radius float64
	Rect   Rect
	Style  Style
}

// Recorder is a Renderer that keeps the commands it receives, in order.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Stroke(p Path, s Style) {
	r.Commands = append(r.Commands, Command{Kind: CmdStroke, Path: p, Style: s})
}

func (r *Recorder) FillCircle(center Point, radius float64, s Style) {
	r.Commands = append(r.Commands, Command{Kind: CmdFillCircle, Center: center, Radius: radius, Style: s})
}

func (r *Recorder) FillRect(rc Rect, s Style) {
	r.Commands = append(r.Commands, Command{Kind: CmdFillRect, Rect: rc, Style: s})
}

// Count returns how many recorded commands have the given kind.
func (r *Recorder) Count(kind CommandKind) int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Replay sends every recorded command to dst in order.
func (r *Recorder) Replay(dst Renderer) {
	for _, c := range r.Commands {
		switch c.Kind {
		case CmdStroke:
			dst.Stroke(c.Path, c.Style)
		case CmdFillCircle:
			dst.FillCircle(c.Center, c.Radius, c.Style)
		case CmdFillRect:
			dst.FillRect(c.Rect, c.Style)
		}
	}
}
