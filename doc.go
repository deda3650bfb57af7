// Package art0 is the animation engine behind the art0 "8 disks" generative
// composition: eight color zones, each crossfading through randomly chosen
// images on a timer, layered over a background and under a frame overlay.
//
// # Quick start
//
// Build an engine around an image provider, assign images, and run it in an
// ebiten window with [Run]:
//
//	e := art0.New(cache, art0.Options{FadeDuration: 3, HoldDuration: 2, FrameLimit: true})
//	e.SetImages(imagesByCategory, art0.DefaultCategories)
//	e.SetBackground(cache.Get("intro/intro@1680.png"))
//	e.Start()
//	art0.Run(e, art0.RunConfig{Title: "art0", Width: 1280, Height: 720})
//
// For headless output, pair a [RasterSurface] with a [ManualClock] and a
// [Script]; the engine does not care which surface it draws to.
//
// # Zone scheduler
//
// [Scheduler] is the state machine. One zone at a time fades its incoming
// image in over the fade duration (through an eased S-curve, or linearly and
// briefly under reduced motion), holds for the hold duration, then the cursor
// moves to the next category. Images are chosen per category without
// repetition until every image has been shown.
//
// # Compositor
//
// [Compositor] draws back to front: background, each zone's current image and
// then its incoming image in category order, then the frame. Every image is
// fitted inside the canvas preserving its aspect ratio and centered. The
// global transition alpha multiplies every layer.
//
// # Frame driver
//
// [Driver] turns host frame callbacks into ticks: it clamps long deltas,
// optionally skips ticks that arrive faster than the target rate, measures fps
// in one-second windows, downgrades a [QualityTier] hint when fps stays low,
// and runs style-switch transitions. [Engine.Pause] and [Engine.Resume] stop
// and restart time without a jump.
//
// # Observers
//
// Register callbacks on [Observers] for zone status, fps, quality changes and
// transition completion. Each registration returns a [CallbackHandle].
package art0
