package layouts

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// ShowDeleteConfirm shows a confirmation dialog before deleting a layout
func ShowDeleteConfirm(parent fyne.Window, name string, onConfirm func()) {
	dialog.ShowConfirm("Delete Layout",
		"Delete layout '"+name+"'? This cannot be undone.",
		func(confirmed bool) {
			if confirmed {
				onConfirm()
			}
		},
		parent,
	)
}

// ShowErrorDialog shows an error message dialog
func ShowErrorDialog(parent fyne.Window, message string) {
	dialog.ShowError(errors.New(message), parent)
}

// ShowPanel opens the layout panel in a custom dialog.
func ShowPanel(parent fyne.Window, p *LayoutPanel) {
	d := dialog.NewCustom("Layouts", "Close", p, parent)
	p.SetOnLoaded(d.Hide)
	d.Resize(fyne.NewSize(320, 380))
	d.Show()
}
