// FORUM
// =====
// A small HTTP service for users, link articles, comments and votes.
//
// Boot the server:
// ----------------
// $ go run . serve --store sqlite --store-path forum.db
//
// Print the route docs:
// ---------------------
// $ go run . routes --json
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"username":"alice"}' http://localhost:4000/users
// {"user":{"username":"alice","articleIds":[],"commentIds":[]}}
//
// $ curl -X POST -d '{"article":{"title":"Hi","url":"http://x","username":"alice"}}' http://localhost:4000/articles
// {"article":{"id":1,"title":"Hi","url":"http://x","username":"alice","commentIds":[],"upvotedBy":[],"downvotedBy":[]}}
//
// $ curl -X PUT -d '{"username":"alice"}' http://localhost:4000/articles/1/upvote
// {"article":{"id":1,...,"upvotedBy":["alice"],"downvotedBy":[]}}
//
// $ curl -i -X DELETE http://localhost:4000/articles/1
// HTTP/1.1 204 No Content
package main

import (
	"os"
)

const ServiceName = "forum"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
