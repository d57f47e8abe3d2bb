// Package segmenter embeds the SmartCart segmentation pipeline in a Go program.
//
// It loads the fitted scaler and clustering model once, optionally caches
// predictions in Valkey or Redis, and returns the same segment labels and
// proportion charts the HTTP service shows.
//
//	client, _ := segmenter.New(ctx,
//	    segmenter.WithArtifacts("artifacts/scaler.json", "artifacts/model.json"),
//	)
//	defer client.Close()
//
//	c := segmenter.DefaultCustomer()
//	c.Income = 58000
//	c.TotalSpending = 1200
//	res, _ := client.Predict(ctx, c)
//	fmt.Println(res.Segment.Cluster, res.Segment.Label)
package segmenter
