// Package git manages the source checkouts that branches are benchmarked in.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"
)

const remoteName = "origin"

// Client performs source control operations on local checkouts.
type Client struct {
	depth int
	log   logrus.FieldLogger
}

// NewClient creates a new source control client. depth limits clone and fetch
// history; zero fetches full history.
func NewClient(log logrus.FieldLogger, depth int) *Client {
	return &Client{
		depth: depth,
		log:   log.WithField("component", "git_client"),
	}
}

// Clone clones url into dest.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	c.log.WithFields(logrus.Fields{
		"url":  url,
		"dest": dest,
	}).Info("cloning repository")

	if _, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:        url,
		RemoteName: remoteName,
		Depth:      c.depth,
	}); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}

	return nil
}

// CheckoutRemoteBranch fetches branch from origin and force checks it out as
// a local branch pointing at the remote head.
func (c *Client) CheckoutRemoteBranch(ctx context.Context, path, branch string) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", path, err)
	}

	remoteRef := plumbing.NewRemoteReferenceName(remoteName, branch)
	refSpec := config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), remoteRef))

	c.log.WithFields(logrus.Fields{
		"path":   path,
		"branch": branch,
	}).Debug("fetching remote branch")

	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Depth:      c.depth,
		Force:      true,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching %s: %w", branch, err)
	}

	ref, err := repo.Reference(remoteRef, true)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", remoteRef, err)
	}

	localRef := plumbing.NewBranchReferenceName(branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(localRef, ref.Hash())); err != nil {
		return fmt.Errorf("updating %s: %w", localRef, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: localRef, Force: true}); err != nil {
		return fmt.Errorf("checking out %s: %w", branch, err)
	}

	c.log.WithFields(logrus.Fields{
		"branch": branch,
		"commit": ref.Hash().String(),
	}).Info("checked out branch")

	return nil
}

// DiscardLocalChanges resets tracked files in path to HEAD.
func (c *Client) DiscardLocalChanges(_ context.Context, path string) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset}); err != nil {
		return fmt.Errorf("resetting worktree: %w", err)
	}

	c.log.WithField("path", path).Debug("discarded local changes")

	return nil
}
