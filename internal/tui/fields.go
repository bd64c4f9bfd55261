package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/studiowebux/itemconsole/internal/types"
)

// Stable element ids, one per control and per form
const (
	ElementBaseURL        = "base-url"
	ElementSaveBaseURL    = "save-base-url"
	ElementPopulateSample = "populate-sample"
	ElementClearLog       = "clear-log"
	ElementCreateForm     = "create-form"
	ElementReadForm       = "read-form"
	ElementUpdateForm     = "update-form"
	ElementDeleteForm     = "delete-form"
)

// Text input indices
const (
	fieldBaseURL = iota
	fieldCreateName
	fieldCreateOwner
	fieldCreateCategory
	fieldCreateNotes
	fieldCreatePriority
	fieldReadID
	fieldUpdateID
	fieldUpdateName
	fieldUpdateOwner
	fieldUpdateCategory
	fieldUpdateNotes
	fieldUpdatePriority
	fieldDeleteID
	fieldCount
)

const noInput = -1

// element is one focusable stop: a text input or a button
type element struct {
	id    string
	label string
	input int
}

func (e element) isButton() bool {
	return e.input == noInput
}

// focusOrder lists the focus stops in tab order
var focusOrder = []element{
	{ElementBaseURL, "Base URL", fieldBaseURL},
	{ElementSaveBaseURL, "Save", noInput},
	{ElementPopulateSample, "Populate sample", noInput},
	{ElementClearLog, "Clear log", noInput},
	{ElementCreateForm, "Name", fieldCreateName},
	{ElementCreateForm, "Owner", fieldCreateOwner},
	{ElementCreateForm, "Category", fieldCreateCategory},
	{ElementCreateForm, "Notes", fieldCreateNotes},
	{ElementCreateForm, "Priority", fieldCreatePriority},
	{ElementReadForm, "Item id", fieldReadID},
	{ElementUpdateForm, "Item id", fieldUpdateID},
	{ElementUpdateForm, "Name", fieldUpdateName},
	{ElementUpdateForm, "Owner", fieldUpdateOwner},
	{ElementUpdateForm, "Category", fieldUpdateCategory},
	{ElementUpdateForm, "Notes", fieldUpdateNotes},
	{ElementUpdateForm, "Priority", fieldUpdatePriority},
	{ElementDeleteForm, "Item id", fieldDeleteID},
}

var placeholders = map[int]string{
	fieldBaseURL:        "https://example.execute-api.us-east-1.amazonaws.com/dev",
	fieldCreatePriority: "number",
	fieldUpdatePriority: "number",
	fieldReadID:         "id",
	fieldUpdateID:       "id",
	fieldDeleteID:       "id",
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.Placeholder = placeholders[i]
		inputs[i] = ti
	}
	return inputs
}

// elementIndex returns the first focus stop with the given id, or -1
func elementIndex(id string) int {
	for i, e := range focusOrder {
		if e.id == id {
			return i
		}
	}
	return -1
}

func (m *Model) value(field int) string {
	return m.inputs[field].Value()
}

func (m *Model) createForm() types.ItemForm {
	return types.ItemForm{
		Name:     m.value(fieldCreateName),
		Owner:    m.value(fieldCreateOwner),
		Category: m.value(fieldCreateCategory),
		Notes:    m.value(fieldCreateNotes),
		Priority: m.value(fieldCreatePriority),
	}
}

func (m *Model) updateForm() types.ItemForm {
	return types.ItemForm{
		Name:     m.value(fieldUpdateName),
		Owner:    m.value(fieldUpdateOwner),
		Category: m.value(fieldUpdateCategory),
		Notes:    m.value(fieldUpdateNotes),
		Priority: m.value(fieldUpdatePriority),
	}
}

func (m *Model) setCreateForm(form types.ItemForm) {
	m.inputs[fieldCreateName].SetValue(form.Name)
	m.inputs[fieldCreateOwner].SetValue(form.Owner)
	m.inputs[fieldCreateCategory].SetValue(form.Category)
	m.inputs[fieldCreateNotes].SetValue(form.Notes)
	m.inputs[fieldCreatePriority].SetValue(form.Priority)
}

func (m *Model) idFields() types.IDFields {
	return types.IDFields{
		Read:   m.value(fieldReadID),
		Update: m.value(fieldUpdateID),
		Delete: m.value(fieldDeleteID),
	}
}

func isIDField(field int) bool {
	return field == fieldReadID || field == fieldUpdateID || field == fieldDeleteID
}

func (m *Model) setIDFields(ids types.IDFields) {
	m.inputs[fieldReadID].SetValue(ids.Read)
	m.inputs[fieldUpdateID].SetValue(ids.Update)
	m.inputs[fieldDeleteID].SetValue(ids.Delete)
}

// setFocus moves focus to stop i, wrapping around
func (m *Model) setFocus(i int) {
	n := len(focusOrder)
	i = ((i % n) + n) % n

	if cur := focusOrder[m.focus]; !cur.isButton() {
		m.inputs[cur.input].Blur()
	}
	m.focus = i
	if next := focusOrder[i]; !next.isButton() {
		m.inputs[next.input].Focus()
	}
}

// Focused returns the element id of the focused stop
func (m *Model) Focused() string {
	return focusOrder[m.focus].id
}
