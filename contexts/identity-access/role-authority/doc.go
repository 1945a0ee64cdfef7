// Package roleauthority holds the fixed moderator role ranking and the
// derived permission checks consulted by every privileged operation in the
// panel. It is pure and stateless: callers construct a Table (or use
// Default) and ask questions about it.
package roleauthority
