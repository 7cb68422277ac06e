// Package platform resolves the host into a platform key and supplies the
// shared library suffix table used to name extension binaries.
//
// The Provider type is an explicit collaborator: services receive it in their
// constructors instead of reading runtime.GOOS themselves, which keeps the
// installer testable against any platform.
package platform
