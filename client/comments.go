package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrLoadInFlight is returned when Load is called while a previous Load has
// not finished; the duplicate request is dropped, not queued.
var ErrLoadInFlight = errors.New("comment load already in flight")

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// Thread manages the two-level comment tree for one blog post: the draft
// composer, the single shared reply composer and confirm-gated deletes.
// The list is only ever updated by re-fetching from the server, never by
// splicing locally.
type Thread struct {
	client  *Client
	postID  int64
	confirm ConfirmFunc

	mu         sync.Mutex
	comments   []Comment
	loading    bool
	draft      string
	replyingTo int64 // 0 = no composer open
	replyDraft string
}

// NewThread creates a Thread for one post. confirm may be nil, in which case
// deletes proceed unprompted.
func NewThread(c *Client, postID int64, confirm ConfirmFunc) *Thread {
	return &Thread{client: c, postID: postID, confirm: confirm}
}

// Comments returns the last fetched list.
func (t *Thread) Comments() []Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.comments
}

// Load fetches the threaded list. A duplicate call while one is in flight
// returns ErrLoadInFlight. A canceled fetch applies nothing.
func (t *Thread) Load(ctx context.Context) ([]Comment, error) {
	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return nil, ErrLoadInFlight
	}
	t.loading = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.loading = false
		t.mu.Unlock()
	}()

	return t.refresh(ctx)
}

func (t *Thread) refresh(ctx context.Context) ([]Comment, error) {
	comments, err := t.client.ListComments(ctx, t.postID)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.comments = comments
	t.mu.Unlock()
	return comments, nil
}

// SetDraft updates the top-level composer's content.
func (t *Thread) SetDraft(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = content
}

// Draft returns the top-level composer's content.
func (t *Thread) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// PostComment submits the top-level draft. Whitespace-only drafts are a
// silent no-op with no request issued. On success the draft clears and the
// list is re-fetched.
func (t *Thread) PostComment(ctx context.Context) error {
	t.mu.Lock()
	content := strings.TrimSpace(t.draft)
	t.mu.Unlock()
	if content == "" {
		return nil
	}
	if !t.client.session.IsAuthenticated() {
		return &APIError{Kind: KindUnauthorized, Message: "login required to comment"}
	}

	if _, err := t.client.CreateComment(ctx, t.postID, nil, content); err != nil {
		return err
	}

	t.mu.Lock()
	t.draft = ""
	t.mu.Unlock()

	_, err := t.refresh(ctx)
	return err
}

// ComposeReply toggles the reply composer for the given comment. Opening it
// for one comment closes it for any other; the composer is a single shared
// slot, not per-comment state.
func (t *Thread) ComposeReply(commentID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.replyingTo == commentID {
		t.replyingTo = 0
	} else {
		t.replyingTo = commentID
	}
	t.replyDraft = ""
}

// ReplyingTo returns the comment ID the reply composer targets, or 0 when
// closed.
func (t *Thread) ReplyingTo() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replyingTo
}

// SetReplyDraft updates the reply composer's content.
func (t *Thread) SetReplyDraft(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replyDraft = content
}

// ReplyDraft returns the reply composer's content.
func (t *Thread) ReplyDraft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replyDraft
}

// PostReply submits the open reply composer. A closed composer or a
// whitespace-only draft is a silent no-op. On success the composer closes,
// the draft clears and the list is re-fetched.
func (t *Thread) PostReply(ctx context.Context) error {
	t.mu.Lock()
	parentID := t.replyingTo
	content := strings.TrimSpace(t.replyDraft)
	t.mu.Unlock()
	if parentID == 0 || content == "" {
		return nil
	}
	if !t.client.session.IsAuthenticated() {
		return &APIError{Kind: KindUnauthorized, Message: "login required to reply"}
	}

	if _, err := t.client.CreateComment(ctx, t.postID, &parentID, content); err != nil {
		return err
	}

	t.mu.Lock()
	t.replyingTo = 0
	t.replyDraft = ""
	t.mu.Unlock()

	_, err := t.refresh(ctx)
	return err
}

// CanDelete reports whether the current user may delete the comment: its
// author (matched by email) or an admin.
func (t *Thread) CanDelete(comment Comment) bool {
	user := t.client.session.CurrentUser()
	if user == nil {
		return false
	}
	return user.IsSuperuser || strings.EqualFold(user.Email, comment.UserEmail)
}

// Delete removes a comment after permission and confirmation checks, then
// re-fetches the list so the node disappears from either tree level.
// Declining the confirmation is a no-op.
func (t *Thread) Delete(ctx context.Context, comment Comment) error {
	if !t.CanDelete(comment) {
		return &APIError{Kind: KindForbidden, Message: "cannot delete this comment"}
	}
	if t.confirm != nil && !t.confirm("Are you sure you want to delete this comment?") {
		return nil
	}

	if err := t.client.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	_, err := t.refresh(ctx)
	return err
}
