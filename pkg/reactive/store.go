package reactive

// reactionSet is an insertion-ordered set of reactions subscribed to one
// (raw object, key) pair.
type reactionSet struct {
	members map[*Reaction]struct{}
	order   []*Reaction
}

func newReactionSet() *reactionSet {
	return &reactionSet{members: make(map[*Reaction]struct{})}
}

// add inserts r and reports whether it was not already a member.
func (s *reactionSet) add(r *Reaction) bool {
	if _, ok := s.members[r]; ok {
		return false
	}
	s.members[r] = struct{}{}
	s.order = append(s.order, r)
	return true
}

// remove deletes r, keeping the order of the remaining members.
func (s *reactionSet) remove(r *Reaction) {
	if _, ok := s.members[r]; !ok {
		return
	}
	delete(s.members, r)
	for i, existing := range s.order {
		if existing == r {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = nil
			s.order = s.order[:len(s.order)-1]
			return
		}
	}
}

func (s *reactionSet) len() int {
	return len(s.order)
}

// keyDeps maps the keys of one raw object to their reaction sets. Keys are
// kept in first-read order so that clear notifies deterministically.
type keyDeps struct {
	sets map[any]*reactionSet
	keys []any
}

func (d *keyDeps) setFor(key any) *reactionSet {
	s, ok := d.sets[key]
	if !ok {
		s = newReactionSet()
		d.sets[key] = s
		d.keys = append(d.keys, key)
	}
	return s
}

// depStore holds one keyDeps entry per wrapped raw object.
type depStore struct {
	targets map[any]*keyDeps
}

func newDepStore() *depStore {
	return &depStore{targets: make(map[any]*keyDeps)}
}

// ensure allocates the entry for raw. Called once, at wrap time.
func (s *depStore) ensure(raw any) {
	if _, ok := s.targets[raw]; !ok {
		s.targets[raw] = &keyDeps{sets: make(map[any]*reactionSet)}
	}
}

// register subscribes r to (raw, key). The set is appended to r's cleanup
// list the first time r joins it during the current run. Objects that were
// never wrapped have no entry and are ignored.
func (s *depStore) register(r *Reaction, raw, key any) {
	deps, ok := s.targets[raw]
	if !ok {
		return
	}
	set := deps.setFor(key)
	if set.add(r) {
		r.cleaners = append(r.cleaners, set)
	}
}

// collect returns the reactions affected by a write of kind to keys of raw,
// deduplicated in first-seen order. Structural kinds also collect the
// reactions iterating raw under structKey; clear collects every key.
func (s *depStore) collect(raw any, keys []any, kind OpKind, structKey any) []*Reaction {
	deps, ok := s.targets[raw]
	if !ok {
		return nil
	}

	var out []*Reaction
	seen := make(map[*Reaction]struct{})
	addSet := func(key any) {
		set, ok := deps.sets[key]
		if !ok {
			return
		}
		for _, r := range set.order {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}

	if kind == OpClear {
		for _, key := range deps.keys {
			addSet(key)
		}
	} else {
		for _, key := range keys {
			addSet(key)
		}
	}
	if kind.structural() {
		addSet(structKey)
	}
	return out
}

// release removes r from every set it joined and clears its cleanup list.
func (s *depStore) release(r *Reaction) {
	for _, set := range r.cleaners {
		set.remove(r)
	}
	clear(r.cleaners)
	r.cleaners = r.cleaners[:0]
}
