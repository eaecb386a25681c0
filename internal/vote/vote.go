// Package vote applies up and down votes to the voter sets of an article or
// a comment.
package vote

import (
	"fmt"

	"github.com/SergeyParamoshkin/forum/internal/model"
)

type Direction string

const (
	Up   Direction = "Up"
	Down Direction = "Down"
)

// Apply moves username into the set matching dir and out of the opposite
// one. Applying the same direction again changes nothing. An unknown
// direction is a programming error and panics.
func Apply(dir Direction, v *model.Voters, username string) {
	v.Init()

	var increasing, decreasing model.VoterSet
	switch dir {
	case Up:
		increasing, decreasing = v.UpvotedBy, v.DownvotedBy
	case Down:
		increasing, decreasing = v.DownvotedBy, v.UpvotedBy
	default:
		panic(fmt.Sprintf("vote: invalid direction %q", string(dir)))
	}

	decreasing.Remove(username)
	increasing.Add(username)
}
