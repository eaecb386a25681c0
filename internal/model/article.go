package model

// Article data model. CommentIDs lists the live comments posted under the
// article in the order they were created.
type Article struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	Username   string `json:"username" yaml:"username"` // the author
	CommentIDs IDList `json:"commentIds" yaml:"commentIds"`

	Voters `yaml:",inline"`
}

// NewArticle returns an article with empty comment and voter lists.
func NewArticle(id int, title, url, username string) *Article {
	return &Article{
		ID:         id,
		Title:      title,
		URL:        url,
		Username:   username,
		CommentIDs: IDList{},
		Voters:     NewVoters(),
	}
}
