package automaton

// Merge combines several NFAs (each normally produced by a single
// regex.Compile call) into one, under a fresh start state with an
// epsilon transition to each original start. State ids are
// renumbered into one shared arena. This is NFA union: no change to
// the language any single fragment recognizes, since every original
// accepting state (and its Token tag, if any) is carried over
// unchanged.
func Merge(nfas ...NFA) NFA {
	if len(nfas) == 1 {
		return nfas[0]
	}

	b := NewBuilder()
	start := b.AddState(false)

	for _, nfa := range nfas {
		offset := b.NumStates()
		for _, s := range nfa.States {
			id := b.AddState(s.Accepting)
			if s.Token != nil {
				b.Tag(id, *s.Token)
			}
		}
		for _, s := range nfa.States {
			from := s.ID + offset
			for _, t := range s.Transitions {
				to := t.To + offset
				if t.Epsilon {
					b.AddEpsilon(from, to)
				} else {
					b.AddTransition(from, t.Label, to)
				}
			}
		}
		b.AddEpsilon(start, nfa.Start+offset)
	}

	return b.Build(start)
}
