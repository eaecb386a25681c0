package model

// User data model. Users are created on first reference and never removed;
// they only hold the ids of what they authored.
type User struct {
	Username   string `json:"username" yaml:"username"`
	ArticleIDs IDList `json:"articleIds" yaml:"articleIds"`
	CommentIDs IDList `json:"commentIds" yaml:"commentIds"`
}

func NewUser(username string) *User {
	return &User{
		Username:   username,
		ArticleIDs: IDList{},
		CommentIDs: IDList{},
	}
}
