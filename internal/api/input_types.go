package api

type dateInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type optionalDateInput struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type frequencyInput struct {
	Frequency int `json:"frequency" validate:"required,min=1,max=365"`
}

type noteInput struct {
	Type string `json:"type" validate:"omitempty,max=32"`
	Text string `json:"text" validate:"required,max=2000"`
}

type importantDateInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Month int    `json:"month" validate:"required,min=1,max=12"`
	Day   int    `json:"day" validate:"required,min=1,max=31"`
}

type passcodeInput struct {
	Passcode string `json:"passcode" validate:"required,numeric,min=4,max=12"`
}
