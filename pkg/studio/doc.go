// Package studio provides the public API for embedding the gradient studio.
// A Studio owns one editing session: the gradient state, the CSS generated
// from it, and optionally a preview window that edits the session live.
//
// # Basic Usage
//
//	s, err := studio.New("sunset.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop()
//
//	if err := s.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
//   - Disk file: Use [New] to load a Lua preset from a path
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for generated presets
//   - State: Use [NewFromState] to start from a [State] value
//
// Presets set the studio.gradient and studio.window tables. GRADIENT_*
// environment variables override preset values on every load.
//
// # Editing
//
// [Studio.Dispatch] applies the same actions the preview window raises:
//
//	s.Dispatch(studio.SetAngle{Degrees: 45})
//	s.Dispatch(studio.AddColor{})
//	fmt.Println(s.Result().Declaration)
//
// # Hot Reload
//
// With Options.WatchConfig set, presets loaded by [New] are reloaded in
// place when the file changes. [Studio.ReloadConfig] does the same on
// demand, for example on SIGHUP.
//
// # Headless Mode
//
// Options.Headless skips the preview window. Binaries built with the
// noebiten tag never open a window.
package studio
