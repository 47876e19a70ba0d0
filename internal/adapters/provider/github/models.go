package github

import (
	"time"

	"repocred/internal/core/vcs"
)

// repoDoc is a partial GitHub repository document with fields we use
type repoDoc struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	Size        int       `json:"size"`
	Stargazers  int       `json:"stargazers_count"`
	ForksCount  int       `json:"forks_count"`
	Topics      []string  `json:"topics"`
}

func (d repoDoc) toMetadata() vcs.RepoMetadata {
	return vcs.RepoMetadata{
		Name:        d.Name,
		Description: d.Description,
		Language:    d.Language,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		PushedAt:    d.PushedAt,
		Size:        d.Size,
		Stars:       d.Stargazers,
		Forks:       d.ForksCount,
		Topics:      d.Topics,
	}
}

// commitDoc is a partial GitHub commit list entry
// the outer author is null for commits without a linked account
type commitDoc struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (d commitDoc) toCommit() vcs.Commit {
	c := vcs.Commit{
		SHA:         d.SHA,
		AuthorName:  d.Commit.Author.Name,
		AuthorEmail: d.Commit.Author.Email,
		Message:     d.Commit.Message,
		AuthoredAt:  d.Commit.Author.Date,
	}
	if d.Author != nil {
		c.AuthorHandle = d.Author.Login
	}
	return c
}
