/*
go-treecount counts objects, such as trees, passing a horizontal line drawn
across a video.

Each frame is run through an object Detector, the resulting bounding boxes
are given stable IDs by a centroid tracker and every ID whose box straddles
the counting line is added to a counted set.  The size of that set at the
end of the video is the reported count.

A Run holds all state for processing a single video, so separate videos can
be processed concurrently with separate Runs.

See example/treecount for a command line program.
*/
package treecount
