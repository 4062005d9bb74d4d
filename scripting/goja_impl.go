package scripting

import (
	"context"

	"github.com/dop251/goja"

	"github.com/wudi/annotkit/annot"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) RegisterDOM(dom SessionDOM) error {
	// Expose 'app' object
	appObj := e.vm.NewObject()
	err := appObj.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Alert(msg)
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	e.vm.Set("app", appObj)

	// Expose session methods globally (as if 'this' is the session)
	e.vm.Set("pageCount", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.PageCount())
	})

	e.vm.Set("currentPage", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.CurrentPage())
	})

	e.vm.Set("gotoPage", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		dom.GoToPage(int(call.Arguments[0].ToInteger()))
		return goja.Undefined()
	})

	// addText(text, x, y[, options]) with optional fontSize/color/rotation.
	e.vm.Set("addText", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			return e.vm.ToValue(false)
		}
		cfg := annot.TextConfig{
			Text:     call.Arguments[0].String(),
			FontSize: 24,
			Color:    "black",
		}
		x := int(call.Arguments[1].ToInteger())
		y := int(call.Arguments[2].ToInteger())
		if len(call.Arguments) > 3 {
			if opts, ok := call.Arguments[3].Export().(map[string]interface{}); ok {
				if v, ok := opts["fontSize"].(int64); ok {
					cfg.FontSize = int(v)
				}
				if v, ok := opts["color"].(string); ok {
					cfg.Color = v
				}
				if v, ok := opts["rotation"].(int64); ok {
					cfg.Rotation = int(v)
				}
			}
		}
		return e.vm.ToValue(dom.AddText(cfg, x, y) == nil)
	})

	e.vm.Set("addImage", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			return e.vm.ToValue(false)
		}
		path := call.Arguments[0].String()
		x := int(call.Arguments[1].ToInteger())
		y := int(call.Arguments[2].ToInteger())
		return e.vm.ToValue(dom.AddImage(path, x, y) == nil)
	})

	// applyTemplates(records) returns how many records applied.
	e.vm.Set("applyTemplates", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(0)
		}
		raw, ok := call.Arguments[0].Export().([]interface{})
		if !ok {
			return e.vm.ToValue(0)
		}
		records := make([]annot.Record, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, annot.Record(m))
			}
		}
		return e.vm.ToValue(dom.ApplyRecords(records))
	})

	e.vm.Set("records", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.Records())
	})

	return nil
}
