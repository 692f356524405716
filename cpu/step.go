// step.go - single-instruction step driver
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

// Outcome is the result of one Step call.
type Outcome int

const (
	Success Outcome = iota
	Halted
	Undefined
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Halted:
		return "halted"
	case Undefined:
		return "undefined"
	default:
		return "fatal"
	}
}

// handler executes an already-decoded instruction and reports its
// outcome. Handlers never touch c.EIP directly; Step is the sole writer.
type handler func(c *CPU, d *decoder) Outcome

// Step performs exactly one instruction and returns its outcome. It is
// the only function that writes EIP (per spec §4.6 and §5). On
// Undefined, EIP is left pointing at the first undecoded byte so a host
// can format a diagnostic from the raw bytes at the old EIP.
func (c *CPU) Step() Outcome {
	if c.Halted {
		return Halted
	}

	d := c.newDecoder()
	scan := d.scanPrefixes()
	if !scan.ok {
		return Undefined // more than maxPrefixBytes prefix bytes
	}

	var out Outcome
	if d.twoByte {
		h := extendedOps[scan.opcode]
		if h == nil {
			return Undefined
		}
		out = h(c, d)
	} else {
		h := baseOps[scan.opcode]
		if h == nil {
			out = generalALUDispatch(c, d, scan.opcode)
		} else {
			out = h(c, d)
		}
	}

	switch out {
	case Success:
		if d.jumpTarget != nil {
			c.EIP = *d.jumpTarget
		} else {
			c.EIP = d.base + d.cur
		}
	case Halted:
		c.EIP = d.base + d.cur
		c.Halted = true
	case Undefined:
		// EIP unchanged: left at the offending instruction's start.
	case Fatal:
		// EIP unchanged; signals a core bug, never expected in practice.
	}
	return out
}
