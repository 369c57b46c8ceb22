package errors

// Convenience constructors for recurring error shapes.

// ConfigNotFound reports a missing configuration file.
func ConfigNotFound(path string) *SiteforgeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// GeneratorMissing reports that the external generator binary is absent from PATH.
// Treated as a fatal precondition: no unit may run without it.
func GeneratorMissing(command string, cause error) *SiteforgeError {
	return Wrap(cause, CategoryGenerator, SeverityFatal, "generator binary not found").
		WithContext("command", command)
}

// RootBuildFailed reports a fatal root-unit build failure.
func RootBuildFailed(unit string, cause error) *SiteforgeError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "root build failed").
		WithContext("unit", unit)
}

// BridgeFailed reports a fatal feature-page generation failure.
func BridgeFailed(cause error) *SiteforgeError {
	return Wrap(cause, CategoryMeasures, SeverityFatal, "feature page generation failed")
}

// UnitFailed reports a non-fatal subfolder build failure. The run continues;
// the failure is surfaced through the report summary.
func UnitFailed(unit string, cause error) *SiteforgeError {
	return Wrap(cause, CategoryBuild, SeverityWarning, "unit build failed").
		WithContext("unit", unit)
}

// PortBindFailed reports that the public port could not be bound.
// Fatal precondition: no build work starts.
func PortBindFailed(port int, cause error) *SiteforgeError {
	return Wrap(cause, CategoryServer, SeverityFatal, "failed to bind port").
		WithContext("port", port)
}
