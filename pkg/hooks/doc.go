// Package hooks lets external policy and configuration systems intercept a
// scan without the pipeline knowing about their existence.
//
// # Overview
//
// A ScanHook can run before detectors (pre-scan) to approve, reject, or
// bias a request, and after detectors (post-scan) to adjust or override the
// combined verdict. Hooks are processed as an ordered list with
// early-return control flow: each hook returns a tagged HookResult and the
// driver loop decides whether to continue, stop, or escalate.
//
// # Failure policy
//
// Every hook carries a Fallback that resolves its errors locally:
//
//   - FallbackAllow treats the content as approved
//   - FallbackBlock treats the content as rejected
//   - FallbackContinue ignores the error and proceeds (the default)
//   - FallbackFail propagates a hard pipeline error
//
// A disabled hook is skipped entirely and never contributes to ordering
// decisions.
package hooks
