package params

import "fmt"

// Validate checks basic shape and sizes of the parameter set. A failure here
// is a build-time misconfiguration, not a runtime condition; callers treat it
// as fatal for the instantiation.
func Validate(p *Parameters) error {
	if p.Width != p.Rate+p.Capacity {
		return fmt.Errorf("poseidoninv: rate %d + capacity %d does not match width %d", p.Rate, p.Capacity, p.Width)
	}
	if p.FullRounds%2 != 0 {
		return fmt.Errorf("poseidoninv: full rounds must be even, got %d", p.FullRounds)
	}
	if p.PartialRounds < 0 {
		return fmt.Errorf("poseidoninv: negative partial rounds %d", p.PartialRounds)
	}
	if len(p.RoundConstants) != p.Rounds()*p.Width {
		return fmt.Errorf("poseidoninv: round constant length mismatch: have %d, want %d",
			len(p.RoundConstants), p.Rounds()*p.Width)
	}
	if len(p.MDS) != p.Width*p.Width {
		return fmt.Errorf("poseidoninv: mds length mismatch: have %d, want %d", len(p.MDS), p.Width*p.Width)
	}
	return nil
}
