// script_lua.go - Lua scene scripts bound to the drawing API

package main

import (
	lua "github.com/yuin/gopher-lua"
)

// SceneScript runs Lua against one display. Each script gets a fresh
// interpreter; nothing survives between runs.
type SceneScript struct {
	d *RA8875
}

func NewSceneScript(d *RA8875) *SceneScript {
	return &SceneScript{d: d}
}

var luaColors = map[string]uint16{
	"BLACK":   BLACK,
	"WHITE":   WHITE,
	"RED":     RED,
	"GREEN":   GREEN,
	"BLUE":    BLUE,
	"CYAN":    CYAN,
	"MAGENTA": MAGENTA,
	"YELLOW":  YELLOW,
}

func (s *SceneScript) newState() *lua.LState {
	L := lua.NewState()
	d := s.d

	fns := map[string]lua.LGFunction{
		"fillScreen": func(L *lua.LState) int {
			d.FillScreen(checkColor(L, 1))
			return 0
		},
		"drawPixel": func(L *lua.LState) int {
			d.DrawPixel(L.CheckInt(1), L.CheckInt(2), checkColor(L, 3))
			return 0
		},
		// drawLine(x0, y0, x1, y1, c) or drawLine(x0, y0, x1, y1, t, c)
		"drawLine": func(L *lua.LState) int {
			x0, y0, x1, y1 := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
			if L.GetTop() >= 6 {
				d.DrawThickLine(x0, y0, x1, y1, L.CheckInt(5), checkColor(L, 6))
			} else {
				d.DrawLine(x0, y0, x1, y1, checkColor(L, 5))
			}
			return 0
		},
		"drawRect": func(L *lua.LState) int {
			d.DrawRect(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), checkColor(L, 5))
			return 0
		},
		"fillRect": func(L *lua.LState) int {
			d.FillRect(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), checkColor(L, 5))
			return 0
		},
		"drawCircle": func(L *lua.LState) int {
			d.DrawCircle(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), checkColor(L, 4))
			return 0
		},
		"fillCircle": func(L *lua.LState) int {
			d.FillCircle(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), checkColor(L, 4))
			return 0
		},
		"drawTriangle": func(L *lua.LState) int {
			d.DrawTriangle(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), L.CheckInt(5), L.CheckInt(6), checkColor(L, 7))
			return 0
		},
		"fillTriangle": func(L *lua.LState) int {
			d.FillTriangle(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), L.CheckInt(5), L.CheckInt(6), checkColor(L, 7))
			return 0
		},
		"setCursor": func(L *lua.LState) int {
			d.SetCursor(L.CheckInt(1), L.CheckInt(2))
			return 0
		},
		"setTextColor": func(L *lua.LState) int {
			d.SetTextColor(checkColor(L, 1))
			return 0
		},
		"print": func(L *lua.LState) int {
			for i := 1; i <= L.GetTop(); i++ {
				d.Print(L.ToStringMeta(L.Get(i)).String())
			}
			return 0
		},
		"rgb": func(L *lua.LState) int {
			c := RGB565(uint8(L.CheckInt(1)), uint8(L.CheckInt(2)), uint8(L.CheckInt(3)))
			L.Push(lua.LNumber(c))
			return 1
		},
		"width": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.Width()))
			return 1
		},
		"height": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.Height()))
			return 1
		},
		"drawCanvas": func(L *lua.LState) int {
			d.DrawCanvas()
			return 0
		},
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	for name, c := range luaColors {
		L.SetGlobal(name, lua.LNumber(c))
	}
	return L
}

func checkColor(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xFFFF {
		L.ArgError(n, "color out of range")
	}
	return uint16(v)
}

// RunFile executes a script file.
func (s *SceneScript) RunFile(path string) error {
	L := s.newState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return &DisplayError{Operation: "script", Details: path, Err: err}
	}
	return nil
}

// RunString executes script source; name is used in error messages.
func (s *SceneScript) RunString(name, src string) error {
	L := s.newState()
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return &DisplayError{Operation: "script", Details: name, Err: err}
	}
	return nil
}
