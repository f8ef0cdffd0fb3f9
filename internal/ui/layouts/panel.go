package layouts

import (
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Store is the layout persistence the panel drives.
type Store interface {
	ListLayouts() ([]string, error)
	SaveLayout(name string) error
	LoadLayout(name string) error
	DeleteLayout(name string) error
}

// LayoutPanel lists saved segment layouts and saves, loads or deletes them
type LayoutPanel struct {
	widget.BaseWidget

	store  Store
	logger *slog.Logger
	window fyne.Window

	layoutList binding.StringList
	listWidget *widget.List
	nameEntry  *widget.Entry
	saveBtn    *widget.Button
	loadBtn    *widget.Button
	deleteBtn  *widget.Button

	placeholder *widget.Label

	onLoaded func()

	content *fyne.Container
}

// NewLayoutPanel creates a new layout management panel
func NewLayoutPanel(store Store, logger *slog.Logger, window fyne.Window) *LayoutPanel {
	p := &LayoutPanel{
		store:      store,
		logger:     logger,
		window:     window,
		layoutList: binding.NewStringList(),
	}

	p.ExtendBaseWidget(p)
	p.buildUI()
	p.initializeComponents()
	p.RefreshList()

	return p
}

func (p *LayoutPanel) buildUI() {
	p.listWidget = widget.NewListWithData(
		p.layoutList,
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i binding.DataItem, o fyne.CanvasObject) {
			val, _ := i.(binding.String).Get()
			o.(*widget.Label).SetText(val)
		},
	)

	p.listWidget.OnSelected = func(id widget.ListItemID) {
		items, _ := p.layoutList.Get()
		if id >= 0 && id < len(items) {
			p.nameEntry.SetText(items[id])
		}
	}

	p.nameEntry = widget.NewEntry()
	p.nameEntry.SetPlaceHolder("Layout name")

	p.placeholder = widget.NewLabel("No saved layouts yet")
	p.placeholder.Alignment = fyne.TextAlignCenter
	p.placeholder.Wrapping = fyne.TextWrapWord
	p.placeholder.TextStyle = fyne.TextStyle{Italic: true}

	p.saveBtn = widget.NewButton("Save Current", p.handleSave)
	p.loadBtn = widget.NewButton("Load", p.handleLoad)
	p.deleteBtn = widget.NewButton("Delete", p.handleDelete)
	p.deleteBtn.Importance = widget.DangerImportance
}

func (p *LayoutPanel) initializeComponents() {
	buttons := container.NewGridWithColumns(3, p.saveBtn, p.loadBtn, p.deleteBtn)

	p.content = container.NewBorder(
		nil,
		container.NewVBox(p.nameEntry, buttons),
		nil,
		nil,
		container.NewStack(container.NewScroll(p.listWidget), p.placeholder),
	)
}

// CreateRenderer implements the fyne.Widget interface
func (p *LayoutPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// RefreshList reloads the layout names from the store
func (p *LayoutPanel) RefreshList() {
	names, err := p.store.ListLayouts()
	if err != nil {
		p.logger.Error("failed to list layouts", slog.Any("error", err))
		return
	}

	if err := p.layoutList.Set(names); err != nil {
		p.logger.Error("failed to update layout list", slog.Any("error", err))
	}

	if len(names) == 0 {
		p.placeholder.Show()
	} else {
		p.placeholder.Hide()
	}
}

// SetOnLoaded sets a callback run after a layout was loaded
func (p *LayoutPanel) SetOnLoaded(fn func()) {
	p.onLoaded = fn
}

func (p *LayoutPanel) handleSave() {
	name := p.nameEntry.Text
	if name == "" {
		ShowErrorDialog(p.window, "Please enter a layout name")
		return
	}

	doSave := func() {
		if err := p.store.SaveLayout(name); err != nil {
			p.logger.Error("failed to save layout", slog.String("name", name), slog.Any("error", err))
			ShowErrorDialog(p.window, "Failed to save layout: "+err.Error())
			return
		}
		p.RefreshList()
	}

	existing, _ := p.layoutList.Get()
	if slices.Contains(existing, name) {
		dialog.ShowConfirm("Overwrite Layout",
			"Layout '"+name+"' already exists. Overwrite it?",
			func(confirmed bool) {
				if confirmed {
					doSave()
				}
			},
			p.window,
		)
		return
	}

	doSave()
}

func (p *LayoutPanel) handleLoad() {
	name := p.nameEntry.Text
	if name == "" {
		ShowErrorDialog(p.window, "Please select or enter a layout name")
		return
	}

	if err := p.store.LoadLayout(name); err != nil {
		p.logger.Error("failed to load layout", slog.String("name", name), slog.Any("error", err))
		ShowErrorDialog(p.window, "Failed to load layout: "+err.Error())
		return
	}

	if p.onLoaded != nil {
		p.onLoaded()
	}
}

func (p *LayoutPanel) handleDelete() {
	name := p.nameEntry.Text
	if name == "" {
		ShowErrorDialog(p.window, "Please select or enter a layout name")
		return
	}

	ShowDeleteConfirm(p.window, name, func() { p.deleteLayout(name) })
}

func (p *LayoutPanel) deleteLayout(name string) {
	if err := p.store.DeleteLayout(name); err != nil {
		p.logger.Error("failed to delete layout", slog.String("name", name), slog.Any("error", err))
		ShowErrorDialog(p.window, "Failed to delete layout: "+err.Error())
		return
	}

	p.nameEntry.SetText("")
	p.listWidget.UnselectAll()
	p.RefreshList()
}
