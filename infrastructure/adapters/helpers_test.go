package adapters

type noopLogger struct{}

func (noopLogger) Info(msg string)                                                  {}
func (noopLogger) InfoWithFields(msg string, fields map[string]interface{})         {}
func (noopLogger) Error(err error, msg string)                                      {}
func (noopLogger) ErrorWithFields(err error, msg string, fields map[string]interface{}) {
}
func (noopLogger) Debug(msg string)                                          {}
func (noopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (noopLogger) Warn(msg string)                                           {}
func (noopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
