// Package analysis implements the pixel heuristic behind a skin scan.
//
// A single pass over the image yields brightness, red-tone and dark-spot
// statistics. Fixed thresholds then pick a primary acne type, a list of
// detections and a confidence score, and the recommend package chooses
// ingredients for the diagnosis.
//
// Every random draw (the inflammatory/papulopustular coin flip, detection
// counts and confidence) goes through a RandomSource so a seeded or scripted
// source makes a run reproducible.
package analysis
