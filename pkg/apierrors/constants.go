package apierrors

const (
	MsgUnauthenticated    = "unauthenticated"
	MsgForbidden          = "forbidden"
	MsgTaskNotFound       = "taskNotFound"
	MsgUserNotFound       = "userNotFound"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidFilter      = "invalidFilter"
	MsgValidationFailed   = "validationFailed"

	MsgFailListTasks    = "errorListTasks"
	MsgFailGetTask      = "errorGetTask"
	MsgFailCreateTask   = "errorCreateTask"
	MsgFailUpdateTask   = "errorUpdateTask"
	MsgFailDeleteTask   = "errorDeleteTask"
	MsgFailRestoreTask  = "errorRestoreTask"
	MsgFailArchiveTask  = "errorArchiveTask"
	MsgFailBulkAction   = "errorBulkAction"
	MsgFailExportTasks  = "errorExportTasks"
	MsgFailStats        = "errorStats"
)
