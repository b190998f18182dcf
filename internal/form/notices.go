package form

import (
	"time"
)

// NoticeKind separates error banners from success banners
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Default lifetimes of a notice before it removes itself
const (
	DefaultErrorTTL   = 5 * time.Second
	DefaultSuccessTTL = 3 * time.Second
)

// Notice is a transient banner shown above the form
type Notice struct {
	ID      uint64
	Kind    NoticeKind
	Message string
}

type activeNotice struct {
	notice Notice
	timer  *time.Timer
}

// ShowError replaces the current error notice with msg
func (p *Pipeline) ShowError(msg string) Notice {
	return p.showNotice(NoticeError, msg, p.errorTTL)
}

// ShowSuccess replaces the current success notice with msg
func (p *Pipeline) ShowSuccess(msg string) Notice {
	return p.showNotice(NoticeSuccess, msg, p.successTTL)
}

// Notices returns the notices currently visible, errors first
func (p *Pipeline) Notices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Notice
	for _, kind := range []NoticeKind{NoticeError, NoticeSuccess} {
		if a, ok := p.notices[kind]; ok {
			out = append(out, a.notice)
		}
	}
	return out
}

func (p *Pipeline) showNotice(kind NoticeKind, msg string, ttl time.Duration) Notice {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.notices[kind]; ok {
		prev.timer.Stop()
		delete(p.notices, kind)
		p.view.RemoveNotice(prev.notice)
	}

	p.nextNoticeID++
	n := Notice{ID: p.nextNoticeID, Kind: kind, Message: msg}
	p.view.ShowNotice(n)

	p.notices[kind] = &activeNotice{
		notice: n,
		timer:  time.AfterFunc(ttl, func() { p.expireNotice(n) }),
	}
	return n
}

// expireNotice removes n unless it has already been replaced
func (p *Pipeline) expireNotice(n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.notices[n.Kind]
	if !ok || cur.notice.ID != n.ID {
		return
	}
	delete(p.notices, n.Kind)
	p.view.RemoveNotice(n)
}
