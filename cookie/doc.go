// Package cookie provides sentry.CookieGateway implementations. The
// [HTTPGateway] bridges the core to net/http: a middleware attaches the
// active ResponseWriter and Request to the context via [WithHTTP], and the
// gateway reads request cookies and writes response cookies through it.
// [Jar] is an in-memory stand-in for tests and single-user tools.
package cookie
