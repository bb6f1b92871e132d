package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/kamakura/internal/comments"
	"github.com/UnknownOlympus/kamakura/internal/models"
)

// MaxCommentLength is the longest comment text accepted, in characters.
const MaxCommentLength = 140

// ErrInvalidDraft is returned for drafts that fail validation.
var ErrInvalidDraft = errors.New("invalid comment draft")

// CommentDraft is a comment the user is still writing.
type CommentDraft struct {
	Text        string `validate:"required,max=140"`
	Coordinates models.Coordinates
}

type draftCoordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// CommentAtMapCenter starts a draft pinned to the center of the camera region.
func (c *Coordinator) CommentAtMapCenter() CommentDraft {
	return CommentDraft{Coordinates: c.Region().Center}
}

// CommentAtUserLocation starts a draft pinned to the last position fix.
func (c *Coordinator) CommentAtUserLocation() (CommentDraft, error) {
	coords, ok := c.UserLocation()
	if !ok {
		return CommentDraft{}, ErrNoUserLocation
	}

	return CommentDraft{Coordinates: coords}, nil
}

func (c *Coordinator) validateDraft(draft CommentDraft) error {
	if err := c.validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	coords := draftCoordinates{Latitude: draft.Coordinates.Latitude, Longitude: draft.Coordinates.Longitude}
	if err := c.validate.Struct(coords); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	return nil
}

// SubmitComment validates the draft and adds the comment optimistically. The
// comment is visible as soon as SubmitComment returns; it is written in the
// background and removed again, with an error message, if the write fails.
func (c *Coordinator) SubmitComment(ctx context.Context, draft CommentDraft) (models.Comment, error) {
	draft.Text = strings.TrimSpace(draft.Text)
	if err := c.validateDraft(draft); err != nil {
		return models.Comment{}, err
	}

	comment := models.NewComment(draft.Text, draft.Coordinates, c.clock())
	c.settleInBackground(ctx, comments.Intent{Op: comments.OpAdd, Comment: comment})

	c.log.InfoContext(ctx, "Comment submitted", "comment", comment.ID)

	return comment, nil
}

// DeleteComment removes the comment optimistically and writes the removal in
// the background. A failed write puts the comment back where it was.
func (c *Coordinator) DeleteComment(ctx context.Context, comment models.Comment) {
	c.settleInBackground(ctx, comments.Intent{Op: comments.OpRemove, Comment: comment})

	c.log.InfoContext(ctx, "Comment deleted", "comment", comment.ID)
}

func (c *Coordinator) settleInBackground(ctx context.Context, intent comments.Intent) {
	id := c.store.Apply(intent)
	ctx = context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		var err error
		if intent.Op == comments.OpRemove {
			err = c.store.PersistRemove(ctx, intent.Comment)
		} else {
			err = c.store.PersistAdd(ctx, intent.Comment)
		}
		if err != nil {
			c.log.ErrorContext(ctx, "Failed to persist comment", "op", intent.Op, "comment", intent.Comment.ID, "error", err)
		}
		c.store.Settle(id, err)
	}()
}

// Wait blocks until every background write started by SubmitComment and
// DeleteComment has settled.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// NearbyComments returns the comments within radiusMeters of the user, or of
// the map center when there is no position fix yet.
func (c *Coordinator) NearbyComments(radiusMeters float64) []models.Comment {
	center, ok := c.UserLocation()
	if !ok {
		center = c.Region().Center
	}

	return c.store.Near(center, radiusMeters)
}

// RecentComments returns the newest comments first.
func (c *Coordinator) RecentComments(limit int) []models.Comment {
	return c.store.Recent(limit)
}
