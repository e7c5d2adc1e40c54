package settings

import (
	"math/rand"

	"pomodoro/timer/internal/model"
)

var gradients = []model.Gradient{
	{Name: "purple-blue-cyan", Stops: []string{"#9333ea", "#3b82f6", "#22d3ee"}},
	{Name: "rose-red-orange", Stops: []string{"#f43f5e", "#f87171", "#fdba74"}},
	{Name: "emerald-green-teal", Stops: []string{"#10b981", "#4ade80", "#2dd4bf"}},
	{Name: "indigo-purple-pink", Stops: []string{"#4f46e5", "#a855f7", "#f472b6"}},
	{Name: "amber-orange-yellow", Stops: []string{"#f59e0b", "#fb923c", "#fde047"}},
}

func Gradients() []model.Gradient {
	out := make([]model.Gradient, len(gradients))
	copy(out, gradients)
	return out
}

func LookupGradient(name string) (model.Gradient, bool) {
	for _, gradient := range gradients {
		if gradient.Name == name {
			return gradient, true
		}
	}
	return model.Gradient{}, false
}

// pickGradient returns a preset other than current.
func pickGradient(current string, intn func(int) int) model.Gradient {
	candidates := make([]model.Gradient, 0, len(gradients))
	for _, gradient := range gradients {
		if gradient.Name != current {
			candidates = append(candidates, gradient)
		}
	}
	if intn == nil {
		intn = rand.Intn
	}
	return candidates[intn(len(candidates))]
}
