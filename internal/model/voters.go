package model

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// VoterSet is the set of usernames that voted one way on an item.
// It is encoded as a sorted list of names.
type VoterSet map[string]struct{}

func (s VoterSet) Has(username string) bool {
	_, ok := s[username]

	return ok
}

// Add reports whether username was newly added.
func (s VoterSet) Add(username string) bool {
	if s.Has(username) {
		return false
	}
	s[username] = struct{}{}

	return true
}

// Remove reports whether username was present.
func (s VoterSet) Remove(username string) bool {
	if !s.Has(username) {
		return false
	}
	delete(s, username)

	return true
}

func (s VoterSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (s VoterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *VoterSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = newVoterSet(names)

	return nil
}

func (s VoterSet) MarshalYAML() (interface{}, error) {
	return s.Names(), nil
}

func (s *VoterSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*s = newVoterSet(names)

	return nil
}

func newVoterSet(names []string) VoterSet {
	s := make(VoterSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}

	return s
}

// Voters holds the two vote sets of an article or a comment. A username is
// in at most one of them.
type Voters struct {
	UpvotedBy   VoterSet `json:"upvotedBy" yaml:"upvotedBy"`
	DownvotedBy VoterSet `json:"downvotedBy" yaml:"downvotedBy"`
}

func NewVoters() Voters {
	return Voters{
		UpvotedBy:   VoterSet{},
		DownvotedBy: VoterSet{},
	}
}

// Init allocates sets left nil by a decoder.
func (v *Voters) Init() {
	if v.UpvotedBy == nil {
		v.UpvotedBy = VoterSet{}
	}
	if v.DownvotedBy == nil {
		v.DownvotedBy = VoterSet{}
	}
}
