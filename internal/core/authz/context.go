package authz

// Permission names, matching the gate names the frontend checks.
const (
	PermTasksRead        = "tasks.read"
	PermTasksCreate      = "tasks.create"
	PermTasksUpdate      = "tasks.update"
	PermTasksDelete      = "tasks.delete"
	PermTasksRestore     = "tasks.restore"
	PermTasksForceDelete = "tasks.forceDelete"
	PermTasksArchive     = "tasks.archive"
	PermTasksExport      = "tasks.export"
)

// Context is the authenticated caller, threaded explicitly into every
// service operation. There is no ambient current-user state anywhere.
type Context struct {
	UserID      uint64
	permissions map[string]bool
}

func NewContext(userID uint64, permissions []string) Context {
	set := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		set[p] = true
	}
	return Context{UserID: userID, permissions: set}
}

func (c Context) Can(permission string) bool {
	return c.permissions[permission]
}
