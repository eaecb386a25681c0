package model

// Comment data model.
type Comment struct {
	ID        int    `json:"id" yaml:"id"`
	Body      string `json:"body" yaml:"body"`
	Username  string `json:"username" yaml:"username"`
	ArticleID int    `json:"articleId" yaml:"articleId"`

	Voters `yaml:",inline"`
}

func NewComment(id int, body, username string, articleID int) *Comment {
	return &Comment{
		ID:        id,
		Body:      body,
		Username:  username,
		ArticleID: articleID,
		Voters:    NewVoters(),
	}
}
