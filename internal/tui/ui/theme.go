package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	OperatorColor     tcell.Color
	ClientColor       tcell.Color
	SessionValid      tcell.Color
	SessionRefreshing tcell.Color
	SessionExpired    tcell.Color
}

// DefaultTheme returns the dark operator theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorLightSteelBlue,
		BorderColor:       tcell.ColorSteelBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorMediumTurquoise,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorGold,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorMediumTurquoise,
		MenuKeyColor:      tcell.ColorSteelBlue,
		NumericKeyColor:   tcell.ColorOrchid,
		TitleColor:        tcell.ColorGold,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorSteelBlue,
		OperatorColor:     tcell.ColorMediumTurquoise,
		ClientColor:       tcell.ColorGold,
		SessionValid:      tcell.ColorLimeGreen,
		SessionRefreshing: tcell.ColorOrange,
		SessionExpired:    tcell.ColorOrangeRed,
	}
}

// SessionColor returns the color a session state is shown in.
func (t *Theme) SessionColor(state string) tcell.Color {
	switch state {
	case "VALID":
		return t.SessionValid
	case "REFRESHING":
		return t.SessionRefreshing
	default:
		return t.SessionExpired
	}
}

// ColorName returns a tview-compatible color tag for c.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
