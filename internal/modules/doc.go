// Package modules groups the application's features. Each subpackage
// implements module.Module and is listed in app.NewModules.
//
//   - account: splash, login and sign-up screens
//   - reader: the signed-in reader's home and diagnostics
package modules
