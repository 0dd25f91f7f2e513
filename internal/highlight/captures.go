package highlight

const (
	CaptureInjectionCombined        = "injection.combined"
	captureInjectionLanguage        = "injection.language"
	captureInjectionSelf            = "injection.self"
	captureInjectionParent          = "injection.parent"
	captureInjectionIncludeChildren = "injection.include-children"
	CaptureLocal                    = "local"
	CaptureLocalScopeInherits       = "local.scope-inherits"
)
