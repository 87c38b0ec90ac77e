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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"collagecreator/internal/domain"
	"collagecreator/internal/editor"
	"collagecreator/internal/sidebar"
)

// sidebarView mirrors the sidebar forms into widgets. Widget callbacks
// write through the forms; sync copies the forms back into the widgets.
type sidebarView struct {
	s      *editor.Session
	p      *sidebar.Panel
	status *widget.Label

	syncing bool

	areaW, areaH *widget.Entry
	areaBg       *widget.Check
	areaBgColor  *widget.Entry

	imgCard    *widget.Card
	imgW, imgH *widget.Entry
	imgRot     *widget.Entry
	imgRatio   *widget.Check

	newText    *widget.Entry
	textCard   *widget.Card
	txtValue   *widget.Entry
	txtFont    *widget.Select
	txtSize    *widget.Entry
	txtRot     *widget.Entry
	txtColor   *widget.Entry
	txtBg      *widget.Check
	txtBgColor *widget.Entry
	txtPadding *widget.Entry

	invalid *widget.Label
}

func newSidebarView(s *editor.Session, p *sidebar.Panel, status *widget.Label) *sidebarView {
	v := &sidebarView{s: s, p: p, status: status, invalid: widget.NewLabel("")}
	v.invalid.Importance = widget.DangerImportance

	v.areaW = v.entry(p.Area.SetWidth)
	v.areaH = v.entry(p.Area.SetHeight)
	v.areaBg = widget.NewCheck("Background", func(on bool) {
		if !v.syncing {
			v.report(p.Area.SetBackgroundEnabled(on), nil)
		}
	})
	v.areaBgColor = v.entry(p.Area.SetBackgroundColor)

	v.imgW = v.entry(p.Image.SetWidth)
	v.imgH = v.entry(p.Image.SetHeight)
	v.imgRot = v.entry(p.Image.SetRotation)
	v.imgRatio = widget.NewCheck("Keep ratio", func(on bool) {
		if !v.syncing && on != p.Image.KeepRatio {
			p.Image.ToggleKeepRatio()
		}
	})

	v.newText = widget.NewEntry()
	v.newText.SetPlaceHolder("New text")
	v.newText.OnChanged = func(s string) {
		if !v.syncing {
			p.Text.SetNewText(s)
		}
	}
	addText := func() {
		_, err := p.Text.Add()
		v.report(err, nil)
	}
	v.newText.OnSubmitted = func(string) { addText() }

	v.txtValue = v.entry(p.Text.SetValue)
	fonts := make([]string, len(domain.FontFamilies))
	for i, f := range domain.FontFamilies {
		fonts[i] = string(f)
	}
	v.txtFont = widget.NewSelect(fonts, func(name string) {
		if !v.syncing {
			v.report(p.Text.SetFont(name), nil)
		}
	})
	v.txtSize = v.entry(p.Text.SetFontSize)
	v.txtRot = v.entry(p.Text.SetRotation)
	v.txtColor = v.entry(p.Text.SetColor)
	v.txtBg = widget.NewCheck("Background", func(on bool) {
		if !v.syncing {
			v.report(p.Text.SetBackgroundEnabled(on), nil)
		}
	})
	v.txtBgColor = v.entry(p.Text.SetBackgroundColor)
	v.txtPadding = v.entry(p.Text.SetPadding)

	front := widget.NewButtonWithIcon("Front", theme.MoveUpIcon(), func() {
		if im, ok := s.SelectedImage(); ok {
			s.MoveToFront(im.ID)
		}
	})
	back := widget.NewButtonWithIcon("Back", theme.MoveDownIcon(), func() {
		if im, ok := s.SelectedImage(); ok {
			s.MoveToBack(im.ID)
		}
	})
	del := func() {
		if s.DeleteSelected() {
			v.status.SetText("Deleted")
		}
	}
	v.imgCard = widget.NewCard("Image", "", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Width", v.imgW),
			widget.NewFormItem("Height", v.imgH),
			widget.NewFormItem("Rotation", v.imgRot),
		),
		v.imgRatio,
		container.NewHBox(front, back, widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), del)),
	))
	v.textCard = widget.NewCard("Text", "", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Text", v.txtValue),
			widget.NewFormItem("Font", v.txtFont),
			widget.NewFormItem("Size", v.txtSize),
			widget.NewFormItem("Rotation", v.txtRot),
			widget.NewFormItem("Color", v.txtColor),
		),
		v.txtBg,
		widget.NewForm(
			widget.NewFormItem("Background", v.txtBgColor),
			widget.NewFormItem("Padding", v.txtPadding),
		),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), del),
	))
	v.sync(nil)
	return v
}

func (v *sidebarView) content() fyne.CanvasObject {
	area := widget.NewCard("Download area", "", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Width", v.areaW),
			widget.NewFormItem("Height", v.areaH),
		),
		v.areaBg,
		widget.NewForm(widget.NewFormItem("Color", v.areaBgColor)),
	))
	add := widget.NewCard("Add text", "", container.NewBorder(nil, nil, nil,
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { v.newText.OnSubmitted(v.newText.Text) }),
		v.newText))
	return container.NewVBox(area, add, v.imgCard, v.textCard, v.invalid)
}

// entry binds a text field to a form setter.
func (v *sidebarView) entry(set func(string) error) *widget.Entry {
	e := widget.NewEntry()
	e.OnChanged = func(s string) {
		if v.syncing {
			return
		}
		v.report(set(s), e)
	}
	return e
}

func (v *sidebarView) report(err error, src *widget.Entry) {
	if err != nil {
		v.status.SetText(err.Error())
	} else {
		v.status.SetText("")
	}
	v.sync(src)
}

// resync re-seeds the forms from the session, as after a canvas gesture.
func (v *sidebarView) resync() {
	v.p.Resync()
	v.sync(nil)
}

// sync copies the form drafts into the widgets. skip is the entry the
// user is typing in; its text is left alone.
func (v *sidebarView) sync(skip *widget.Entry) {
	v.syncing = true
	defer func() { v.syncing = false }()
	set := func(e *widget.Entry, s string) {
		if e != skip && e.Text != s {
			e.SetText(s)
		}
	}
	p := v.p

	set(v.areaW, p.Area.Width.Draft)
	set(v.areaH, p.Area.Height.Draft)
	v.areaBg.SetChecked(p.Area.BgEnabled)
	set(v.areaBgColor, p.Area.BgColor)
	set(v.newText, p.Text.NewText)

	if p.Image.Active() {
		v.imgCard.Show()
		set(v.imgW, p.Image.Width.Draft)
		set(v.imgH, p.Image.Height.Draft)
		set(v.imgRot, p.Image.Rotation.Draft)
		v.imgRatio.SetChecked(p.Image.KeepRatio)
	} else {
		v.imgCard.Hide()
	}

	if p.Text.Active() {
		v.textCard.Show()
		set(v.txtValue, p.Text.Value)
		v.txtFont.SetSelected(string(p.Text.Font))
		set(v.txtSize, p.Text.FontSize.Draft)
		set(v.txtRot, p.Text.Rotation.Draft)
		set(v.txtColor, p.Text.Color)
		v.txtBg.SetChecked(p.Text.BgEnabled)
		set(v.txtBgColor, p.Text.BgColor)
		set(v.txtPadding, p.Text.Padding.Draft)
		if p.Text.BgEnabled {
			v.txtBgColor.Enable()
			v.txtPadding.Enable()
		} else {
			v.txtBgColor.Disable()
			v.txtPadding.Disable()
		}
	} else {
		v.textCard.Hide()
	}

	if bad := p.Errors(); len(bad) > 0 {
		v.invalid.SetText("Needs a number bigger than 0: " + strings.Join(bad, ", "))
	} else {
		v.invalid.SetText("")
	}
}
