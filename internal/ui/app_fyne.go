//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"collagecreator/internal/compose"
	"collagecreator/internal/decode"
	"collagecreator/internal/export"
	applog "collagecreator/internal/log"
)

// Run opens the collage window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Session == nil || opts.Surface == nil || opts.Panel == nil {
		return errors.New("ui: session, surface and panel are required")
	}
	s := opts.Session
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("session", s.ID()))

	fyneApp := app.NewWithID("collagecreator")
	w := fyneApp.NewWindow(opts.title())
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	cv := NewCollageCanvas(s, opts.Surface)
	side := newSidebarView(s, opts.Panel, status)
	cv.OnGestureEnd = func() { side.resync() }
	s.Selection().OnChange(func(string) { fyne.Do(func() { side.sync(nil) }) })

	addUploads := func(ups []decode.Upload) {
		if len(ups) == 0 {
			return
		}
		ids := s.AddImages(ups...)
		status.SetText(fmt.Sprintf("Added %d image(s)", len(ids)))
	}

	uploadBtn := widget.NewButtonWithIcon("Upload", theme.UploadIcon(), func() {
		s.ClearSelection()
		open := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if ur == nil {
				return
			}
			defer ur.Close()
			data, rerr := io.ReadAll(ur)
			if rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			addUploads([]decode.Upload{{Name: ur.URI().Name(), Data: data}})
		}, w)
		open.SetFilter(fstorage.NewExtensionFileFilter(ImageExtensions))
		open.Show()
	})
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		var ups []decode.Upload
		for _, u := range uris {
			if !IsImageFile(u.Name()) {
				continue
			}
			up, err := decode.ReadUpload(u.Path())
			if err != nil {
				l.Warn("drop read failed", slog.String("uri", u.String()), slog.Any("err", err))
				continue
			}
			ups = append(ups, up)
		}
		addUploads(ups)
	})

	var zoomIn, zoomOut *widget.Button
	zoomLabel := widget.NewLabel("")
	updateZoom := func() {
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", s.Scale()*100))
		if s.CanZoomIn() {
			zoomIn.Enable()
		} else {
			zoomIn.Disable()
		}
		if s.CanZoomOut() {
			zoomOut.Enable()
		} else {
			zoomOut.Disable()
		}
	}
	zoomIn = widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { s.ZoomIn(); updateZoom() })
	zoomOut = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { s.ZoomOut(); updateZoom() })
	updateZoom()
	s.OnFrame(func(*compose.Frame) { fyne.Do(updateZoom) })

	formats := []string{string(export.FormatPNG), string(export.FormatJPEG), string(export.FormatPDF)}
	formatSel := widget.NewSelect(formats, func(v string) {
		if f, err := export.ParseFormat(v); err == nil {
			s.Pipeline().SetFormat(f)
		}
	})
	formatSel.SetSelected(string(s.Pipeline().Options().Format))

	var exportBtn *widget.Button
	exportBtn = widget.NewButtonWithIcon("Download", theme.DownloadIcon(), func() {
		exportBtn.Disable()
		status.SetText("Exporting…")
		go func() {
			res, err := s.Export(context.Background())
			fyne.Do(func() {
				exportBtn.Enable()
				side.sync(nil)
				switch {
				case errors.Is(err, export.ErrExportInProgress):
					status.SetText("Export already running")
				case err != nil:
					l.Error("export failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					status.SetText("Export failed")
				case res.Path == "":
					status.SetText("Nothing to export")
				default:
					status.SetText(fmt.Sprintf("Saved %s (%dx%d)", res.Path, res.Width, res.Height))
				}
			})
		}()
	})

	w.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyDelete {
			if s.DeleteSelected() {
				status.SetText("Deleted")
			}
		}
	})

	toolbar := container.NewHBox(uploadBtn, widget.NewSeparator(), zoomOut, zoomLabel, zoomIn, widget.NewSeparator(), formatSel, exportBtn)
	stage := container.NewScroll(cv)
	right := container.NewVScroll(side.content())
	split := container.NewHSplit(stage, right)
	split.Offset = 0.72
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, split))

	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", opts.title()+"\n"+s.Summary(), w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("Help", aboutItem)))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.ShowAndRun()
	return nil
}
