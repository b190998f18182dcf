package server

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	noticePolicy     *bluemonday.Policy
	noticePolicyOnce sync.Once
)

// sanitizeNotice strips all markup from a notice message. Server-reported
// errors end up here verbatim, so nothing in them may render as HTML.
func sanitizeNotice(msg string) template.HTML {
	noticePolicyOnce.Do(func() {
		noticePolicy = bluemonday.StrictPolicy()
	})
	return template.HTML(noticePolicy.Sanitize(msg))
}
