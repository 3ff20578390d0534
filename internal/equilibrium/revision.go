package equilibrium

// Revise is the Gabbay-Rodrigues revision function. It returns the next
// value of an argument whose current value is v and whose attackers
// currently hold the given values:
//
//	(1-v)*min(0.5, 1-maxAtt) + v*max(0.5, 1-maxAtt)
//
// where maxAtt is the strongest attacker value, or 0 without attackers.
// The result stays in [0,1] whenever v and every attacker value do.
func Revise(v float64, attackers []float64) float64 {
	complement := 1 - MaxAttack(attackers)
	return (1-v)*min(0.5, complement) + v*max(0.5, complement)
}

// MaxAttack returns the largest attacker value, or 0 if there are none.
func MaxAttack(attackers []float64) float64 {
	if len(attackers) == 0 {
		return 0
	}
	m := attackers[0]
	for _, a := range attackers[1:] {
		if a > m {
			m = a
		}
	}
	return m
}
