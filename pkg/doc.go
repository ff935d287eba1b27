// Package pkg holds the libraries behind the turnout chart generator.
//
// # Overview
//
// turnout compares 2014 U.S. state voter turnout across voter ID law
// categories. It reads a turnout table and an ID-law table, joins them by
// state, and draws four PNG charts. The packages are layered bottom-up:
//
//  1. [errors] - coded errors and input path validation
//  2. [dataset] - record types, law classification and the left join
//  3. [io] - CSV import and JSON export of the joined table
//  4. [stats] - mean, median, percentiles and bootstrap intervals
//  5. [chart] - chart specs, plotting, caption and cropping
//  6. [cache] - on-disk cache of rendered images
//  7. [pipeline] - orchestration (load → render → write)
//
// # Data flow
//
//	data/turnout.csv   data/idlaws.csv
//	         ↓                ↓
//	    [io] Load (parse + join via [dataset])
//	         ↓
//	    [pipeline] Runner, once per chart:
//	         ↓
//	    [cache] lookup → [chart] Render on miss
//	         ↓
//	img/mean.png  img/mean_ci.png  img/median.png  img/box.png
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, out := range result.Outputs {
//	    fmt.Println(out.Path)
//	}
//
// [errors]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/errors
// [dataset]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/dataset
// [io]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/io
// [stats]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/stats
// [chart]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/chart
// [cache]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/turnout/pkg/pipeline
package pkg
