package security

import "axeberg-kernel/ids"

// CheckPermission reports whether a caller with the given credentials may
// perform the requested access (read/write/exec) on a file owned by
// fileUid/fileGid with mode fileMode. Root always passes.
func CheckPermission(
	fileUid ids.Uid, fileGid ids.Gid, fileMode FileMode,
	userUid ids.Uid, userGid ids.Gid, userGroups []ids.Gid,
	wantRead, wantWrite, wantExec bool,
) bool {
	if userUid == ids.Root {
		return true
	}

	var r, w, x bool
	switch {
	case userUid == fileUid:
		r, w, x = fileMode.OwnerRead(), fileMode.OwnerWrite(), fileMode.OwnerExec()
	case userGid == fileGid || containsGid(userGroups, fileGid):
		r, w, x = fileMode.GroupRead(), fileMode.GroupWrite(), fileMode.GroupExec()
	default:
		r, w, x = fileMode.OtherRead(), fileMode.OtherWrite(), fileMode.OtherExec()
	}

	return (!wantRead || r) && (!wantWrite || w) && (!wantExec || x)
}
