// Package main provides the entry point for the PixelPaint application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"pixelpaint/internal/app"
	"pixelpaint/internal/editor"
	"pixelpaint/internal/tool"
	"pixelpaint/ui/mainwindow"
	"pixelpaint/ui/prefs"
)

const (
	appTitle   = "PixelPaint"
	appVersion = "0.1.0"

	defaultWidth  = 800
	defaultHeight = 600
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	fyneApp := fyneapp.NewWithID("pixelpaint")
	fyneApp.Settings().SetTheme(&app.PaintTheme{})

	appPrefs := prefs.Load()

	w := int(appPrefs.FloatWithFallback("documentWidth", defaultWidth))
	h := int(appPrefs.FloatWithFallback("documentHeight", defaultHeight))
	ed := editor.New(w, h)
	ed.SetBrushSize(int(appPrefs.FloatWithFallback("brushSize", 4)))
	ed.SetOpacity(appPrefs.FloatWithFallback("opacity", 1.0))
	tools := tool.NewManager(ed)
	mainwindow.RegisterDefaultTools(ed, tools)

	win := mainwindow.New(fyneApp, ed, tools)
	win.SetTitle(appTitle)

	// Open a document given on the command line
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := ed.OpenDocument(path); err != nil {
			log.Printf("Failed to open %s: %v", path, err)
		}
	}

	setupHotReload(win, appPrefs)

	win.ShowAndRun()

	appPrefs.SetFloat("documentWidth", float64(ed.Stack().Width()))
	appPrefs.SetFloat("documentHeight", float64(ed.Stack().Height()))
	appPrefs.SetFloat("brushSize", float64(ed.BrushSize()))
	appPrefs.SetFloat("opacity", ed.Opacity())
	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// setupHotReload configures automatic restart detection when the binary
// is recompiled during development.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		promptRestart(win, appPrefs, reloader)
	})

	reloader.Start()
}

func promptRestart(win *mainwindow.MainWindow, appPrefs *prefs.Prefs, reloader *app.HotReloader) {
	dialog.ShowConfirm("New Version Available",
		"The application binary has been updated.\nRestart now?",
		func(restart bool) {
			if !restart {
				reloader.ResetBaseline()
				reloader.Start()
				return
			}
			log.Println("Hot reload: saving preferences before restart...")
			if err := appPrefs.Save(); err != nil {
				log.Printf("Hot reload: preference save failed: %v", err)
			}
			log.Println("Hot reload: restarting...")
			if err := reloader.Restart(); err != nil {
				log.Printf("Hot reload: restart failed: %v", err)
			}
		}, win.Window)
}
