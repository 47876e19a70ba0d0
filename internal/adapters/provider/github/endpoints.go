package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"repocred/internal/adapters/provider"
	"repocred/internal/core/gitref"
	"repocred/internal/core/vcs"
	perr "repocred/internal/platform/errors"
)

// Metadata fetches the repository snapshot for ref
func (c *Client) Metadata(ctx context.Context, ref gitref.Ref) (vcs.RepoMetadata, error) {
	path := fmt.Sprintf("/repos/%s/%s", ref.Owner, ref.Name)
	resp, err := c.do(ctx, path)
	if err != nil {
		return vcs.RepoMetadata{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	var doc repoDoc
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return vcs.RepoMetadata{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read repo body failed")
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return vcs.RepoMetadata{}, perr.Wrapf(err, perr.ErrorCodeUpstreamSchema, "github repo document malformed")
	}
	return doc.toMetadata(), nil
}

// Commits fetches up to limit most recent commits, walking pages of 100
func (c *Client) Commits(ctx context.Context, ref gitref.Ref, limit int) ([]vcs.Commit, error) {
	if limit <= 0 {
		limit = provider.DefaultMaxCommits
	}

	var out []vcs.Commit
	for page := 1; len(out) < limit; page++ {
		per := pageSize
		if rest := limit - len(out); rest < per {
			per = rest
		}
		docs, err := c.commitPage(ctx, ref, page, per)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			out = append(out, d.toCommit())
		}
		// a short page means the history is exhausted
		if len(docs) < per {
			break
		}
	}
	return out, nil
}

func (c *Client) commitPage(ctx context.Context, ref gitref.Ref, page, perPage int) ([]commitDoc, error) {
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d&page=%d", ref.Owner, ref.Name, perPage, page)
	resp, err := c.do(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	var docs []commitDoc
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read commits body failed")
	}
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstreamSchema, "github commit list malformed")
	}
	return docs, nil
}
