// Package testing provides deterministic test doubles for inlinesvg.
//
// # Quick Start
//
// Drive an engine on virtual time and a canned transport:
//
//	func TestIcon(t *testing.T) {
//	    lp := svgtest.NewFakeLoop()
//	    fetcher := svgtest.NewFakeFetcher(map[string]string{
//	        "/foo.svg": `<svg viewBox="0 0 1 1"><path d=""/></svg>`,
//	    })
//	    engine := inlinesvg.NewEngine(inlinesvg.Config{Scheduler: lp, Fetcher: fetcher})
//	    factory := engine.Configure(inlinesvg.PathMap{"Foo": "/foo.svg"}, inlinesvg.Options{})
//
//	    inst := factory.Mount(parent, inlinesvg.Props{})
//	    inst.HandleAnimationStart(inlinesvg.AnimationEvent{Name: "svg_Foo"})
//	    if err := lp.Settle(); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// FakeLoop runs timers and animation frames in virtual time, waits for work
// handed to Go, and records which frame callback is currently running so
// tests can assert how many updates landed in one frame.
package testing
