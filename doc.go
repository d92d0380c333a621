// Package lutconv converts 3D color lookup tables between the vendor raw
// half-float dump, the Adobe CUBE text format, and the compact .MS-LUT
// binary format read by the grading engine.
//
// # Pipelines
//
// Two batch pipelines are provided, each driven by a Converter:
//
//	raw (.data, .data.zst) --raw.Read--> lut.Table --cube.Encode--> .cube
//	.cube --cube.Decode--> lut.Table --binlut.Encode--> .bin
//
// RawToStrip additionally renders raw dumps as TIFF strips for inspection.
//
// # Quick Start
//
//	c := lutconv.NewConverter(lutconv.WithWorkers(4))
//	report, err := c.CubeToBinary(ctx, "assets/luts")
//	if err != nil {
//	    return err // root missing or unreadable
//	}
//	fmt.Printf("converted %d/%d\n", report.Succeeded, report.Attempted)
//
// A failing file never stops a batch: its error is recorded in the Report
// and the remaining files are still converted.
//
// # Packages
//
//   - half: binary16 decoding
//   - lut: table model and error kinds
//   - raw: vendor dump reader
//   - cube: CUBE text decoder and encoder
//   - binlut: .MS-LUT binary writer and reader
//   - strip: TIFF strip export
package lutconv
