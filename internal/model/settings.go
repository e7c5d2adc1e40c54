package model

const (
	MinGradientAnimationSeconds     = 5
	MaxGradientAnimationSeconds     = 30
	DefaultGradientAnimationSeconds = 15

	DefaultBackgroundColor = "#000000"
	DefaultTextColor       = "#ffffff"
)

type Presentation struct {
	UseGradient              bool   `json:"useGradient"`
	BackgroundColor          string `json:"backgroundColor"`
	TextColor                string `json:"textColor"`
	GradientAnimationSeconds int    `json:"gradientAnimationSeconds"`
	Gradient                 string `json:"gradient"`
}

type Settings struct {
	WorkDurationSeconds  int          `json:"workDurationSeconds"`
	BreakDurationSeconds int          `json:"breakDurationSeconds"`
	Presentation         Presentation `json:"presentation"`
}

type Gradient struct {
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}
