package ui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/compose"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/feed"
)

// SessionChangedMsg reports that the token appeared in or vanished from the
// cookie jar. It only moves the navbar indicator.
type SessionChangedMsg struct {
	Present bool
}

// Messages carrying a seq belong to the screen mounted with that sequence
// number and are dropped once the user has navigated away.

type postsPageMsg struct {
	seq   int
	req   feed.Request
	posts []api.Post
	err   error
}

type deleteConfirmedMsg struct {
	seq int
	id  int64
}

type deleteResultMsg struct {
	seq int
	id  int64
	err error
}

type loginResultMsg struct {
	seq int
	err error
}

type registerResultMsg struct {
	seq int
	err error
}

type submitResultMsg struct {
	seq  int
	post api.Post
	err  error
}

type logoutDoneMsg struct {
	err error
}

// Commands

func (m Model) fetchPageCmd(seq int, req feed.Request) tea.Cmd {
	ctx, svc, token := m.ctx, m.api, m.session.Snapshot().Token
	return func() tea.Msg {
		posts, err := svc.ListPosts(ctx, token, req.Limit, req.Offset)
		return postsPageMsg{seq: seq, req: req, posts: posts, err: err}
	}
}

func confirmDeleteCmd(seq int, id int64) tea.Cmd {
	return func() tea.Msg { return deleteConfirmedMsg{seq: seq, id: id} }
}

func (m Model) deleteCmd(seq int, id int64) tea.Cmd {
	ctx, svc, token := m.ctx, m.api, m.session.Snapshot().Token
	return func() tea.Msg {
		return deleteResultMsg{seq: seq, id: id, err: svc.DeletePost(ctx, token, id)}
	}
}

func (m Model) loginCmd(seq int, creds api.Credentials) tea.Cmd {
	ctx, svc, sess := m.ctx, m.api, m.session
	return func() tea.Msg {
		resp, err := svc.Login(ctx, creds)
		if err == nil {
			err = sess.Login(ctx, resp.Access)
		}
		return loginResultMsg{seq: seq, err: err}
	}
}

func (m Model) registerCmd(seq int, reg api.Registration) tea.Cmd {
	ctx, svc := m.ctx, m.api
	return func() tea.Msg {
		return registerResultMsg{seq: seq, err: svc.Register(ctx, reg)}
	}
}

func (m Model) submitCmd(seq int, draft compose.Draft, existing *api.Post) tea.Cmd {
	ctx, sub, token := m.ctx, m.submitter, m.session.Snapshot().Token
	return func() tea.Msg {
		post, err := sub.Submit(ctx, token, draft, existing)
		return submitResultMsg{seq: seq, post: post, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		err := sess.Logout(ctx)
		if err != nil {
			log.Printf("ui: logout: %v", err)
		}
		return logoutDoneMsg{err: err}
	}
}
