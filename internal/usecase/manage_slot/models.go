package manage_slot

// Request модель запроса на изменение слота бизнесом
type Request struct {
	SlotID     int64 // ID слота
	BusinessID int64 // ID бизнеса, которому принадлежит слот
}

// Action действие над слотом
type Action string

const (
	ActionDelete     Action = "delete"
	ActionDeactivate Action = "deactivate"
	ActionActivate   Action = "activate"
)

// Response результат изменения слота
type Response struct {
	SlotID      int64  `json:"slotId"`
	Action      Action `json:"action"`
	IsAvailable bool   `json:"isAvailable"`
	Deleted     bool   `json:"deleted"`
}
