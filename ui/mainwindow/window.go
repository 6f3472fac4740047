// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/filter"
	"pixelpaint/internal/layer"
	"pixelpaint/internal/selection"
	"pixelpaint/internal/tool"
	"pixelpaint/internal/version"
	"pixelpaint/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir = "lastDirectory"

	defaultDocWidth  = 800
	defaultDocHeight = 600
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	ed     *editor.Editor
	tools  *tool.Manager
	canvas *canvas.DocumentCanvas

	statusBar *widget.Label
	zoomLabel *widget.Label
	toolLabel *widget.Label

	shiftDown bool
	ctrlDown  bool
	altDown   bool
}

// New creates the main window wired to an editor and its tool manager.
func New(fyneApp fyne.App, ed *editor.Editor, tools *tool.Manager) *MainWindow {
	win := fyneApp.NewWindow("PixelPaint")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		ed:     ed,
		tools:  tools,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeyHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewDocumentCanvas(mw.ed, mw.tools)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")
	mw.toolLabel = widget.NewLabel("brush")

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%d%%", int(zoom*100+0.5)))
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas.Container(),
	)

	statusRow := container.NewBorder(
		nil, nil,
		mw.toolLabel,
		mw.zoomLabel,
		mw.statusBar,
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(statusRow),
		nil, nil,
		canvasArea,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 800))
}

// createToolbar creates the toolbar with tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolBtn := func(label, name string) *widget.Button {
		return widget.NewButton(label, func() { mw.selectTool(name) })
	}

	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	actualBtn := widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) })

	return container.NewHBox(
		toolBtn("Brush", "brush"),
		toolBtn("Spray", "airbrush"),
		toolBtn("Eraser", "eraser"),
		toolBtn("Fill", "fill"),
		toolBtn("Pick", "picker"),
		toolBtn("Text", "text"),
		widget.NewSeparator(),
		toolBtn("Line", "line"),
		toolBtn("Rect", "rectangle"),
		toolBtn("Ellipse", "ellipse"),
		widget.NewSeparator(),
		toolBtn("Select", "select rectangle"),
		toolBtn("Select O", "select ellipse"),
		toolBtn("Select P", "select polygon"),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New...", mw.onNewDocument),
		fyne.NewMenuItem("Open...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Layer...", mw.onImportLayer),
		fyne.NewMenuItem("Export As...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.ed.Undo),
		fyne.NewMenuItem("Redo", mw.ed.Redo),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Brush", func() { mw.selectTool("brush") }),
		fyne.NewMenuItem("Airbrush", func() { mw.selectTool("airbrush") }),
		fyne.NewMenuItem("Eraser", func() { mw.selectTool("eraser") }),
		fyne.NewMenuItem("Fill", func() { mw.selectTool("fill") }),
		fyne.NewMenuItem("Picker", func() { mw.selectTool("picker") }),
		fyne.NewMenuItem("Text", func() { mw.selectTool("text") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Line", func() { mw.selectTool("line") }),
		fyne.NewMenuItem("Rectangle", func() { mw.selectTool("rectangle") }),
		fyne.NewMenuItem("Ellipse", func() { mw.selectTool("ellipse") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select Rectangle", func() { mw.selectTool("select rectangle") }),
		fyne.NewMenuItem("Select Ellipse", func() { mw.selectTool("select ellipse") }),
		fyne.NewMenuItem("Select Polygon", func() { mw.selectTool("select polygon") }),
	)

	filterMenu := fyne.NewMenu("Filter",
		fyne.NewMenuItem("Brighten", func() {
			mw.applyFilterSimple("brighten", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustBrightness(img, 10)
			})
		}),
		fyne.NewMenuItem("Darken", func() {
			mw.applyFilterSimple("darken", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustBrightness(img, -10)
			})
		}),
		fyne.NewMenuItem("More Contrast", func() {
			mw.applyFilterSimple("contrast", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustContrast(img, 10)
			})
		}),
		fyne.NewMenuItem("Less Contrast", func() {
			mw.applyFilterSimple("contrast", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustContrast(img, -10)
			})
		}),
		fyne.NewMenuItem("Auto Contrast", func() {
			mw.applyFilterSimple("auto contrast", filter.AutoContrast)
		}),
		fyne.NewMenuItem("Saturate", func() {
			mw.applyFilterSimple("saturate", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustSaturation(img, 10)
			})
		}),
		fyne.NewMenuItem("Desaturate", func() {
			mw.applyFilterSimple("desaturate", func(img *image.RGBA) *image.RGBA {
				return filter.AdjustSaturation(img, -10)
			})
		}),
		fyne.NewMenuItem("Rotate Hue", func() {
			mw.applyFilterSimple("rotate hue", func(img *image.RGBA) *image.RGBA {
				return filter.RotateHue(img, 30)
			})
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Grayscale", func() {
			mw.applyFilterSimple("grayscale", filter.Grayscale)
		}),
		fyne.NewMenuItem("Invert", func() {
			mw.applyFilterSimple("invert", filter.Invert)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Gaussian Blur", func() {
			mw.applyFilter("blur", func(img *image.RGBA) (*image.RGBA, error) {
				return filter.GaussianBlur(img, 2)
			})
		}),
		fyne.NewMenuItem("Sharpen", func() {
			mw.applyFilter("sharpen", filter.Sharpen)
		}),
		fyne.NewMenuItem("Emboss", func() {
			mw.applyFilter("emboss", filter.Emboss)
		}),
		fyne.NewMenuItem("Mosaic", func() {
			mw.applyFilterSimple("mosaic", func(img *image.RGBA) *image.RGBA {
				return filter.Mosaic(img, 8)
			})
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, filterMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for editor events.
func (mw *MainWindow) setupEventHandlers() {
	mw.ed.On(editor.EventDocumentOpened, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("PixelPaint - " + filepath.Base(path))
			mw.updateStatus("Opened " + path)
		}
	})

	mw.ed.On(editor.EventDocumentNew, func(data interface{}) {
		mw.SetTitle("PixelPaint - Untitled")
		mw.updateStatus("New document")
	})

	mw.ed.On(editor.EventDocumentExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("PixelPaint - " + filepath.Base(path))
			mw.updateStatus("Exported " + path)
		}
	})

	mw.ed.On(editor.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.ed.On(editor.EventStatusChanged, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})

	mw.ed.On(editor.EventToolChanged, func(data interface{}) {
		if name, ok := data.(string); ok {
			mw.toolLabel.SetText(name)
		}
	})
}

// setupKeyHandlers wires raw key events to modifier tracking and the
// active tool. Fyne's desktop driver reports modifier keys as plain key
// presses, so shift state is tracked here and fed to the canvas.
func (mw *MainWindow) setupKeyHandlers() {
	deskCanvas, ok := mw.Canvas().(desktop.Canvas)
	if !ok {
		return
	}

	deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		mw.trackModifier(ev.Name, true)
		mw.tools.KeyDown(string(ev.Name))
		mw.canvas.Refresh()
	})
	deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		mw.trackModifier(ev.Name, false)
	})
}

func (mw *MainWindow) trackModifier(name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		mw.shiftDown = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		mw.ctrlDown = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		mw.altDown = down
	default:
		return
	}
	mw.canvas.SetModifiers(mw.shiftDown, mw.ctrlDown, mw.altDown)
}

func (mw *MainWindow) selectTool(name string) {
	mw.tools.Select(name)
	mw.canvas.Refresh()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// applyFilter runs a fallible filter on the active layer as one undoable
// edit. A floating selection is resolved first.
func (mw *MainWindow) applyFilter(name string, fn func(*image.RGBA) (*image.RGBA, error)) {
	mw.ed.NotifyExternalOperation("filter " + name)
	err := mw.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		out, err := fn(img)
		if err != nil {
			return err
		}
		copy(img.Pix, out.Pix)
		return nil
	}, true)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Applied " + name)
}

func (mw *MainWindow) applyFilterSimple(name string, fn func(*image.RGBA) *image.RGBA) {
	mw.applyFilter(name, func(img *image.RGBA) (*image.RGBA, error) {
		return fn(img), nil
	})
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// Menu action handlers

func (mw *MainWindow) onNewDocument() {
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(defaultDocWidth))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(defaultDocHeight))

	items := []*widget.FormItem{
		widget.NewFormItem("Width", widthEntry),
		widget.NewFormItem("Height", heightEntry),
	}
	dialog.ShowForm("New Document", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		w, err := strconv.Atoi(widthEntry.Text)
		if err != nil || w < 1 {
			w = defaultDocWidth
		}
		h, err := strconv.Atoi(heightEntry.Text)
		if err != nil || h < 1 {
			h = defaultDocHeight
		}
		mw.ed.NewDocument(w, h)
	}, mw.Window)
}

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.ed.OpenDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(layer.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportLayer() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.ed.ImportLayer(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Imported layer from " + filepath.Base(path))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(layer.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !layer.IsSupportedFormat(path) {
			path += ".png"
		}
		mw.saveLastDir(path)
		if err := mw.ed.ExportDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("untitled.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PixelPaint",
		fmt.Sprintf("PixelPaint v%s\n\n"+
			"A layer-based raster paint program.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// RegisterDefaultTools builds the standard tool set and selects the
// brush. Kept here so main stays a thin entry point.
func RegisterDefaultTools(ed *editor.Editor, tools *tool.Manager) {
	tools.Register(tool.NewBrushTool(ed))
	tools.Register(tool.NewAirbrushTool(ed))
	tools.Register(tool.NewEraserTool(ed))
	tools.Register(tool.NewFillTool(ed))
	tools.Register(tool.NewPickerTool(ed))
	tools.Register(tool.NewTextTool(ed))
	tools.Register(tool.NewShapeTool(ed, tool.ShapeLine))
	tools.Register(tool.NewShapeTool(ed, tool.ShapeRect))
	tools.Register(tool.NewShapeTool(ed, tool.ShapeEllipse))
	tools.Register(selection.NewTool(ed, selection.VariantRectangle))
	tools.Register(selection.NewTool(ed, selection.VariantEllipse))
	tools.Register(selection.NewTool(ed, selection.VariantPolygon))
	tools.Select("brush")
}
