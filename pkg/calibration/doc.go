// Package calibration implements the DPI coordinate calibration engine. It
// contains:
//
//   - Point / State: the persisted calibration record shared by daemon,
//     client and CLI code
//   - Estimate: median-based scale/offset estimation from reference points
//   - Convert: bidirectional physical<->logical coordinate conversion
//   - Status: the calibration lifecycle (uncalibrated -> calibrated ->
//     verified) synthesized from the persisted record
//
// Physical coordinates are device pixels (what low-level pointer APIs
// consume); logical coordinates are DPI-scaled units (what window/layout
// APIs report). The relationship is Physical = Logical*scale + offset per
// axis. Typical scale factors: 1.0, 1.25, 1.5, 1.75, 2.0.
package calibration
