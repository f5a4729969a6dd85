// Package member holds the member (user) model shared between the session
// layer and the credential store.
package member

// User is the authenticated member as reported by the backend on login.
type User struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"memberName"`
	Nickname string `json:"memberNickname"`
	Email    string `json:"memberEmail"`
}
